package combinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/synparse/parsetree"
)

func tok(typ, val string) parsetree.Token {
	return parsetree.Token{Type: typ, Value: val}
}

func inputOf(toks ...parsetree.Token) Input {
	return Input{Tokens: toks, File: "test.g"}
}

func Test_TokenParser(t *testing.T) {
	assert := assert.New(t)

	p := &TokenParser{TokenType: "int"}

	c := NewCollector()
	child, offset, err := p.Parse(c, inputOf(tok("int", "1")), 0)
	if assert.NoError(err) {
		assert.Equal(1, offset)
		assert.Equal(tok("int", "1"), child)
	}

	c = NewCollector()
	_, _, err = p.Parse(c, inputOf(tok("plus", "+")), 0)
	assert.Error(err)

	c = NewCollector()
	_, _, err = p.Parse(c, inputOf(), 0)
	assert.Error(err)
}

func Test_ConcatParser(t *testing.T) {
	assert := assert.New(t)

	p := NewConcatParser([]Parser{
		&TokenParser{TokenType: "int"},
		&TokenParser{TokenType: "plus"},
		&TokenParser{TokenType: "int"},
	})

	c := NewCollector()
	child, offset, err := p.Parse(c, inputOf(tok("int", "1"), tok("plus", "+"), tok("int", "2")), 0)
	if assert.NoError(err) {
		assert.Equal(3, offset)
		tree, ok := child.(*parsetree.InnerTree)
		if assert.True(ok) {
			assert.Len(tree.Children, 3)
		}
	}
}

func Test_ConcatParser_spliceUnlabeledNestedConcat(t *testing.T) {
	assert := assert.New(t)

	inner := NewConcatParser([]Parser{
		&TokenParser{TokenType: "a"},
		&TokenParser{TokenType: "b"},
	})
	outer := NewConcatParser([]Parser{inner, &TokenParser{TokenType: "c"}})

	assert.Len(outer.Parsers, 3)
}

func Test_ChoiceParser(t *testing.T) {
	assert := assert.New(t)

	p := NewChoiceParser(&TokenParser{TokenType: "int"}, &TokenParser{TokenType: "str"})

	c := NewCollector()
	_, offset, err := p.Parse(c, inputOf(tok("str", "hi")), 0)
	if assert.NoError(err) {
		assert.Equal(1, offset)
	}

	c = NewCollector()
	_, _, err = p.Parse(c, inputOf(tok("bool", "true")), 0)
	assert.Error(err)
}

func Test_ChoiceParser_furthestFailureAtEachOffsetIsRegistered(t *testing.T) {
	assert := assert.New(t)

	// "a b" | "a c", input is "a d" -- both alternatives consume the "a"
	// before failing, so both failures are registered at offset 1.
	p := NewChoiceParser(
		NewConcatParser([]Parser{&TokenParser{TokenType: "a"}, &TokenParser{TokenType: "b"}}),
		NewConcatParser([]Parser{&TokenParser{TokenType: "a"}, &TokenParser{TokenType: "c"}}),
	)

	c := NewCollector()
	_, _, err := p.Parse(c, inputOf(tok("a", "a"), tok("d", "d")), 0)
	assert.Error(err)

	furthest := c.Furthest()
	assert.Equal(1, furthest.Offset)
	assert.True(furthest.Expected["b"])
	assert.True(furthest.Expected["c"])
}

func Test_OptionalParser(t *testing.T) {
	assert := assert.New(t)

	p := &OptionalParser{Inner: &TokenParser{TokenType: "int"}}

	c := NewCollector()
	_, offset, err := p.Parse(c, inputOf(tok("int", "1")), 0)
	if assert.NoError(err) {
		assert.Equal(1, offset)
	}

	c = NewCollector()
	_, offset, err = p.Parse(c, inputOf(tok("str", "x")), 0)
	if assert.NoError(err) {
		assert.Equal(0, offset)
	}
	// the inner failure is still registered even though Optional succeeds.
	assert.NotPanics(func() { c.Furthest() }, "the inner failure should have been registered")
}

func Test_RepeatParser(t *testing.T) {
	assert := assert.New(t)

	p := &RepeatParser{Inner: &TokenParser{TokenType: "int"}, Min: 0}

	c := NewCollector()
	_, offset, err := p.Parse(c, inputOf(tok("int", "1"), tok("int", "2"), tok("str", "x")), 0)
	if assert.NoError(err) {
		assert.Equal(2, offset)
	}

	c = NewCollector()
	_, offset, err = p.Parse(c, inputOf(tok("str", "x")), 0)
	if assert.NoError(err) {
		assert.Equal(0, offset)
	}
}

func Test_RepeatParser_minOneFailsWhenNoMatches(t *testing.T) {
	assert := assert.New(t)

	p := &RepeatParser{Inner: &TokenParser{TokenType: "int"}, Min: 1}

	c := NewCollector()
	_, _, err := p.Parse(c, inputOf(tok("str", "x")), 0)
	assert.Error(err)
}

func Test_NodeParser_delegatesTransparently(t *testing.T) {
	assert := assert.New(t)

	target := NewConcatParser([]Parser{&TokenParser{TokenType: "int"}})
	p := &NodeParser{NodeType: "NUM", Inner: target}

	c := NewCollector()
	child, offset, err := p.Parse(c, inputOf(tok("int", "1")), 0)
	if assert.NoError(err) {
		assert.Equal(1, offset)
		_, ok := child.(*parsetree.InnerTree)
		assert.True(ok)
	}
}
