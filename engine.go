// Package synparse implements a data-driven parser engine: grammars are
// described as a small JSON document rather than hand-written code, and
// that document is compiled into a tokenizer and a recursive-descent parser
// that together turn input text into a typed syntax tree.
package synparse

import (
	"fmt"
	"io"

	"github.com/dekarrin/synparse/combinator"
	"github.com/dekarrin/synparse/grammar"
	"github.com/dekarrin/synparse/lexer"
	"github.com/dekarrin/synparse/parsetree"
)

// UnknownNodeTypeError is returned when a caller asks to parse starting from
// a node type that the grammar never declared.
type UnknownNodeTypeError struct {
	NodeType string
}

func (e *UnknownNodeTypeError) Error() string {
	return fmt.Sprintf("%q is not a node type declared in this grammar", e.NodeType)
}

// Engine is the file-parser façade (§4.E): a loaded Grammar plus the
// tokenize/parse/flatten pipeline that turns source text into a
// parsetree.Node. An Engine is read-only after New returns and may be used
// from multiple goroutines concurrently — every parse gets its own
// combinator.Collector, so no shared mutable state exists between them.
type Engine struct {
	g *grammar.Grammar
}

// New compiles a grammar description (JSON text, see §6) into an Engine.
func New(grammarJSON string) (*Engine, error) {
	g, err := grammar.Load(grammarJSON)
	if err != nil {
		return nil, err
	}
	return &Engine{g: g}, nil
}

// NewFromGrammar wraps an already-compiled grammar.Grammar in an Engine,
// skipping the decode/compile step New performs. Callers that cache the
// compiled form (see package cache) use this to avoid recompiling a grammar
// they already have in hand.
func NewFromGrammar(g *grammar.Grammar) *Engine {
	return &Engine{g: g}
}

// ParseOption configures a call to Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	trace    io.Writer
	rootNode string
}

// WithTrace makes Parse write one line per tokenized lexeme and one line per
// combinator invocation to w, in the style of a verbose interpreter trace.
func WithTrace(w io.Writer) ParseOption {
	return func(o *parseOptions) {
		o.trace = w
	}
}

// WithRootNodeType overrides the grammar's declared root_node for this parse
// only, so the same Engine can be reused to parse sub-languages rooted at
// any declared node type.
func WithRootNodeType(nodeType string) ParseOption {
	return func(o *parseOptions) {
		o.rootNode = nodeType
	}
}

// Tokenize runs the tokenizer alone, against this Engine's grammar's token
// table, without invoking the parser.
func (e *Engine) Tokenize(text, fileName string, filter bool) ([]parsetree.Token, error) {
	return lexer.Tokenize(e.g.Table, text, fileName, filter)
}

// Parse tokenizes text (with filtering enabled) and parses it starting from
// the grammar's root node type, or the node type given by WithRootNodeType.
// It implements §4.E steps 1-6: tokenize, run the root parser with a fresh
// collector, check for leftover input, and on any failure return the
// furthest registered error; on success, flatten and return the typed tree.
func (e *Engine) Parse(text, fileName string, opts ...ParseOption) (*parsetree.Node, error) {
	o := parseOptions{rootNode: e.g.RootNodeType}
	for _, opt := range opts {
		opt(&o)
	}

	root, ok := e.g.Node(o.rootNode)
	if !ok {
		return nil, &UnknownNodeTypeError{NodeType: o.rootNode}
	}

	tokens, err := lexer.Tokenize(e.g.Table, text, fileName, true)
	if err != nil {
		return nil, err
	}

	if o.trace != nil {
		writeTokenTrace(o.trace, tokens, e.g.Table.Types())
	}

	in := combinator.Input{Tokens: tokens, File: fileName}
	c := combinator.NewCollector()
	if o.trace != nil {
		c.SetTrace(o.trace)
	}

	child, offset, err := root.Parse(c, in, 0)
	if err != nil {
		return nil, c.Furthest()
	}

	if offset < len(tokens) {
		// A combinator somewhere along the successful path already tried,
		// and failed, to consume more than this — that failure is still in
		// c and explains the stopping point better than a node type's
		// static top-level-tokens set could. Only fall back to that set when
		// nothing was ever registered (e.g. the root rule is a bare sequence
		// that never attempted to look past its last element).
		if c.HasErrors() {
			return nil, c.Furthest()
		}
		return nil, &combinator.ParseError{
			Offset:   offset,
			Found:    tokens[offset],
			Expected: e.g.TopLevelTokens(o.rootNode),
		}
	}

	tree, ok := child.(*parsetree.InnerTree)
	if !ok {
		panic(fmt.Sprintf("root parser for %q produced a %T, not an InnerTree", o.rootNode, child))
	}

	labeled := tree.Named(o.rootNode)
	return labeled.Flatten(), nil
}
