package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exprGrammarJSON = `{
	"keyword_tokens": {},
	"regular_tokens": {
		"int": "[0-9]+",
		"plus": "\\+",
		"ws": "\\s+"
	},
	"filtered_tokens": ["ws"],
	"nodes": {
		"EXPR": "int (plus int)*",
		"ROOT": "EXPR"
	},
	"root_node": "ROOT"
}`

func Test_Key_stableAcrossNormalizationEquivalentText(t *testing.T) {
	assert := assert.New(t)

	// NFC and NFD forms of the same text normalize to the same key even
	// though their byte representations differ.
	nfc := "café"
	nfd := "café"

	assert.Equal(Key(nfc), Key(nfd))
}

func Test_Key_differsOnDifferentText(t *testing.T) {
	assert := assert.New(t)

	assert.NotEqual(Key("a"), Key("b"))
}

func Test_Cache_Load_emptyDirSkipsDisk(t *testing.T) {
	assert := assert.New(t)

	c := New("")
	g, err := c.Load(exprGrammarJSON)
	if assert.NoError(err) {
		assert.Equal("ROOT", g.RootNodeType)
	}
}

func Test_Cache_Load_missThenHit(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "grammars")
	c := New(dir)

	g1, err := c.Load(exprGrammarJSON)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("ROOT", g1.RootNodeType)

	entry := filepath.Join(dir, Key(exprGrammarJSON)+".rezi")
	assert.FileExists(entry)

	g2, err := c.Load(exprGrammarJSON)
	if assert.NoError(err) {
		assert.Equal(g1.RootNodeType, g2.RootNodeType)
		assert.ElementsMatch(g1.NodeTypes(), g2.NodeTypes())
	}
}

func Test_Cache_Load_invalidJSON(t *testing.T) {
	assert := assert.New(t)

	c := New(t.TempDir())
	_, err := c.Load(`{not json}`)
	assert.Error(err)
}
