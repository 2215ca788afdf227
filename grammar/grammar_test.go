package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/synparse/combinator"
	"github.com/dekarrin/synparse/parsetree"
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

func Test_Load_valid(t *testing.T) {
	assert := assert.New(t)

	g, err := Load(exprGrammarJSON)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("ROOT", g.RootNodeType)
	assert.ElementsMatch([]string{"EXPR", "ROOT"}, g.NodeTypes())

	_, ok := g.Node("EXPR")
	assert.True(ok)
	_, ok = g.Node("NOPE")
	assert.False(ok)

	assert.True(g.TopLevelTokens("EXPR")["int"])
	assert.True(g.TopLevelTokens("ROOT")["int"])
}

func Test_Load_schemaErrors(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{
			name: "malformed json",
			json: `{not json}`,
		},
		{
			name: "missing root_node",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "int"}
			}`,
		},
		{
			name: "unexpected field",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "int"}, "root_node": "ROOT",
				"bogus": true
			}`,
		},
		{
			name: "duplicate token type across tables",
			json: `{
				"keyword_tokens": {"int": "int"}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "int"}, "root_node": "ROOT"
			}`,
		},
		{
			name: "unknown filtered token",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": ["ws"], "nodes": {"ROOT": "int"}, "root_node": "ROOT"
			}`,
		},
		{
			name: "root_node not declared",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "int"}, "root_node": "NOPE"
			}`,
		},
		{
			name: "regex matching empty string",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]*"},
				"filtered_tokens": [], "nodes": {"ROOT": "int"}, "root_node": "ROOT"
			}`,
		},
		{
			name: "unknown token ref in rule",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "nope"}, "root_node": "ROOT"
			}`,
		},
		{
			name: "unmatched bracket in rule",
			json: `{
				"keyword_tokens": {}, "regular_tokens": {"int": "[0-9]+"},
				"filtered_tokens": [], "nodes": {"ROOT": "(int"}, "root_node": "ROOT"
			}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := Load(tc.json)
			assert.Error(err)
			var loadErr *LoadError
			assert.ErrorAs(err, &loadErr)
		})
	}
}

// Test_Load_rulePrecedence checks the structure built for "a? | b" directly:
// resolveChoices only ever pairs the single parser immediately before a '|'
// with the single one immediately after it, so a postfix operator applied
// before a '|' is already resolved into one unit by the time the choice is
// built — demonstrating that postfix binds tighter than alternation, and
// that alternation itself only ever joins single adjacent atoms (a
// multi-atom alternative needs explicit grouping parentheses).
func Test_Load_rulePrecedence(t *testing.T) {
	assert := assert.New(t)

	segments, err := lexRule("X", "a? | b")
	if !assert.NoError(err) {
		return
	}

	parser, err := parseRule("X", segments, map[string]bool{"a": true, "b": true}, nil)
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(parser.Parsers, 1) {
		return
	}
	choice, ok := parser.Parsers[0].(*combinator.ChoiceParser)
	if !assert.True(ok, "expected top-level parser to be a ChoiceParser") {
		return
	}
	if !assert.Len(choice.Parsers, 2) {
		return
	}

	opt, ok := choice.Parsers[0].(*combinator.OptionalParser)
	if assert.True(ok, "expected first alternative to be the optional 'a'") {
		tp, ok := opt.Inner.(*combinator.TokenParser)
		if assert.True(ok) {
			assert.Equal("a", tp.TokenType)
		}
	}

	tp, ok := choice.Parsers[1].(*combinator.TokenParser)
	if assert.True(ok, "expected second alternative to be the token 'b'") {
		assert.Equal("b", tp.TokenType)
	}
}

func Test_Load_selfRecursiveGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := Load(`{
		"keyword_tokens": {"lparen": "\\(", "rparen": "\\)"},
		"regular_tokens": {"int": "[0-9]+"},
		"filtered_tokens": [],
		"nodes": {"EXPR": "int | (lparen EXPR rparen)"},
		"root_node": "EXPR"
	}`)
	if !assert.NoError(err) {
		return
	}

	root, _ := g.Node("EXPR")
	toks := []parsetree.Token{
		{Type: "lparen", Value: "("},
		{Type: "lparen", Value: "("},
		{Type: "int", Value: "1"},
		{Type: "rparen", Value: ")"},
		{Type: "rparen", Value: ")"},
	}

	c := combinator.NewCollector()
	_, offset, err := root.Parse(c, combinator.Input{Tokens: toks, File: "t"}, 0)
	if assert.NoError(err) {
		assert.Equal(len(toks), offset)
	}

	assert.True(g.TopLevelTokens("EXPR")["int"])
	assert.True(g.TopLevelTokens("EXPR")["lparen"])
}
