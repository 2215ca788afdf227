// Package parsetree holds the value types produced by lexing and parsing: the
// lexical Token, the anonymous InnerTree built by parser combinators, and the
// typed Node that a Flatten pass produces from it.
package parsetree

import (
	"fmt"
)

// Token is a single lexeme read from source text, tagged with the token type
// it matched and the Position it started at. A Token is immutable once
// created, and len(Value) is always at least 1 — the tokenizer never emits a
// zero-width token.
type Token struct {
	Value    string
	Type     string
	Position Position
}

// String gives a representation suitable for diagnostics and test failure
// output.
func (t Token) String() string {
	return fmt.Sprintf("Token(type=%q, value=%q)", t.Type, t.Value)
}

// EndOfFile is returned in place of a Token by combinators that look past the
// last token of the stream. It carries only the file path, since there is no
// lexeme or position past the end of input.
type EndOfFile struct {
	File string
}

func (e EndOfFile) String() string {
	return fmt.Sprintf("EndOfFile(file=%q)", e.File)
}

// FoundToken is the union of what a failed match can report as the thing it
// actually found: either a real Token or the EndOfFile sentinel.
type FoundToken interface {
	String() string
}
