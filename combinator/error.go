package combinator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/synparse/parsetree"
)

// ParseError reports that, at Offset tokens into the stream, none of the
// token types in Expected could be matched; Found is either the token that
// was actually there or parsetree.EndOfFile if the stream had already
// ended.
type ParseError struct {
	Offset   int
	Found    parsetree.FoundToken
	Expected map[string]bool
}

// NewParseError builds a ParseError with a single expected token type. Most
// combinator failure sites have exactly one candidate; ChoiceParser and the
// furthest-error aggregator are what build up Expected sets with more than
// one member.
func NewParseError(offset int, found parsetree.FoundToken, expected string) *ParseError {
	return &ParseError{Offset: offset, Found: found, Expected: map[string]bool{expected: true}}
}

func (e *ParseError) expectedList() []string {
	list := make([]string, 0, len(e.Expected))
	for t := range e.Expected {
		list = append(list, t)
	}
	sort.Strings(list)
	return list
}

// Error renders the message forms specified for end-of-file versus an
// unexpected token type.
func (e *ParseError) Error() string {
	expected := strings.Join(e.expectedList(), ", ")

	if eof, ok := e.Found.(parsetree.EndOfFile); ok {
		return fmt.Sprintf("%s: Unexpected end of file\nExpected one of: %s\n", eof.File, expected)
	}

	tok := e.Found.(parsetree.Token)
	return fmt.Sprintf(
		"%s: Unexpected token type\nExpected one of: %s\n          Found: %s\n",
		tok.Position, expected, tok.Type,
	)
}
