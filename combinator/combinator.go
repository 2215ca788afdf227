// Package combinator implements the five parser primitives that grammar
// rules compile down to: TokenParser, NodeParser, ConcatParser, ChoiceParser,
// OptionalParser, and RepeatParser. Together they form a directed, possibly
// cyclic graph (NodeParser is the only combinator that participates in
// cycles) that a recursive-descent parse walks to turn a token stream into an
// anonymous parsetree.InnerTree.
package combinator

import (
	"github.com/dekarrin/synparse/parsetree"
)

// Input bundles the token stream a parse runs over with the file name used
// to render EndOfFile sentinels and diagnostics.
type Input struct {
	Tokens []parsetree.Token
	File   string
}

// Parser is the shared contract every combinator implements: given an Input
// and a starting offset into its token stream, either return the parsed
// Child and the offset just past it, or fail with a *ParseError. Every
// failure, whether returned directly or propagated from a child combinator,
// is registered with c before Parse returns it — no error is ever discarded
// silently.
type Parser interface {
	Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error)
}

// TokenParser matches a single token of the given type.
type TokenParser struct {
	TokenType string
}

func (p *TokenParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Token("+p.TokenType+")", offset, in)

	if offset >= len(in.Tokens) {
		err := NewParseError(offset, parsetree.EndOfFile{File: in.File}, p.TokenType)
		c.Register(err)
		return nil, offset, err
	}

	tok := in.Tokens[offset]
	if tok.Type != p.TokenType {
		err := NewParseError(offset, tok, p.TokenType)
		c.Register(err)
		return nil, offset, err
	}

	return tok, offset + 1, nil
}

// NodeParser delegates to the root combinator of the node type it refers to.
// Inner is set by the grammar loader's binding pass, after every node's
// Concat parser has been constructed — NodeParser is what lets grammars be
// self- or mutually-recursive without requiring the combinator graph to be
// built in dependency order. NodeParser is transparent: it does not wrap the
// inner parser's result in anything of its own.
type NodeParser struct {
	NodeType string
	Inner    Parser
}

func (p *NodeParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Node("+p.NodeType+")", offset, in)
	return p.Inner.Parse(c, in, offset)
}

// ConcatParser runs a fixed sequence of sub-parsers in order, threading the
// offset from one to the next. If NodeType is non-nil, the resulting
// InnerTree carries that node type and survives flattening as a typed Node;
// otherwise it is anonymous scaffolding that Flatten erases.
type ConcatParser struct {
	Parsers  []Parser
	NodeType *string
}

// NewConcatParser builds a ConcatParser from parsers, splicing in the
// children of any direct sub-parser that is itself an unlabeled
// ConcatParser. This flattening happens once, at construction time, so that
// grouping parentheses in a rule string don't add extra anonymous layers for
// Flatten to walk through later.
func NewConcatParser(parsers []Parser) *ConcatParser {
	cp := &ConcatParser{}
	for _, p := range parsers {
		if inner, ok := p.(*ConcatParser); ok && inner.NodeType == nil {
			cp.Parsers = append(cp.Parsers, inner.Parsers...)
		} else {
			cp.Parsers = append(cp.Parsers, p)
		}
	}
	return cp
}

func (p *ConcatParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Concat", offset, in)

	children := make([]parsetree.Child, 0, len(p.Parsers))

	for _, sub := range p.Parsers {
		child, newOffset, err := sub.Parse(c, in, offset)
		if err != nil {
			return nil, offset, err
		}
		children = append(children, child)
		offset = newOffset
	}

	return &parsetree.InnerTree{Type: p.NodeType, Children: children}, offset, nil
}

// ChoiceParser tries each alternative at the same offset, in order, and
// returns the first one that succeeds. If all fail, the last failure (which,
// since every alternative is attempted, was registered with the furthest
// progress among them) is returned.
type ChoiceParser struct {
	Parsers []Parser
}

// NewChoiceParser builds a ChoiceParser from two alternatives, splicing in
// the branches of either argument that is already a ChoiceParser so that a
// chain of alternatives ends up as one flat list rather than nested pairs.
func NewChoiceParser(first, second Parser) *ChoiceParser {
	cp := &ChoiceParser{}
	if fc, ok := first.(*ChoiceParser); ok {
		cp.Parsers = append(cp.Parsers, fc.Parsers...)
	} else {
		cp.Parsers = append(cp.Parsers, first)
	}
	if sc, ok := second.(*ChoiceParser); ok {
		cp.Parsers = append(cp.Parsers, sc.Parsers...)
	} else {
		cp.Parsers = append(cp.Parsers, second)
	}
	return cp
}

func (p *ChoiceParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Choice", offset, in)

	var lastErr error

	for _, sub := range p.Parsers {
		child, newOffset, err := sub.Parse(c, in, offset)
		if err == nil {
			return child, newOffset, nil
		}
		lastErr = err
	}

	return nil, offset, lastErr
}

// OptionalParser succeeds unconditionally. On success of its inner parser it
// returns that result; on failure it returns an empty anonymous InnerTree at
// the original offset, without consuming input. The inner failure is still
// registered with the collector (OptionalParser does not suppress it) — an
// optional that "failed quietly" at some offset is not evidence that the
// offset was otherwise acceptable, and the furthest-error report needs to
// know about it.
type OptionalParser struct {
	Inner Parser
}

func (p *OptionalParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Optional", offset, in)

	child, newOffset, err := p.Inner.Parse(c, in, offset)
	if err != nil {
		return &parsetree.InnerTree{}, offset, nil
	}
	return child, newOffset, nil
}

// RepeatParser runs its inner parser repeatedly, from one advancing offset to
// the next, stopping at the first failure. If fewer than Min repetitions
// succeeded, the failure propagates; otherwise the accumulated matches are
// returned as one anonymous InnerTree.
type RepeatParser struct {
	Inner Parser
	Min   int
}

func (p *RepeatParser) Parse(c *Collector, in Input, offset int) (parsetree.Child, int, error) {
	c.traceEnter("Repeat", offset, in)

	var children []parsetree.Child
	count := 0

	for {
		child, newOffset, err := p.Inner.Parse(c, in, offset)
		if err != nil {
			if count < p.Min {
				return nil, offset, err
			}
			break
		}

		if newOffset <= offset {
			panic("RepeatParser inner parser succeeded without consuming input")
		}

		children = append(children, child)
		offset = newOffset
		count++
	}

	return &parsetree.InnerTree{Children: children}, offset, nil
}
