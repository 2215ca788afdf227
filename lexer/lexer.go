// Package lexer turns source text into a sequence of tokens, driven by an
// ordered table of (token type, regex) pairs. It has no notion of grammar
// nodes or parsing; it is a pure function of a Table and an input string.
package lexer

import (
	"fmt"

	"github.com/dekarrin/synparse/parsetree"
)

// Error is returned when no entry in the table matches at some offset. It
// carries the Position of the failure so callers can render a precise
// diagnostic.
type Error struct {
	Position parsetree.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: Tokenization failed.", e.Position)
}

// Tokenize scans text against table in order, from offset 0, anchoring each
// candidate regex at the current offset and taking the first entry that
// matches ("first match wins", not "longest match wins"). file is recorded on
// every emitted Token's Position and is otherwise not interpreted.
//
// If filter is true, tokens whose type is in table.Filtered are scanned (so
// the offset still advances past them) but are not included in the returned
// slice. This is how whitespace and comments disappear before parsing while
// still being available, unfiltered, for tools that want to see every
// lexeme.
//
// Tokenize does not append an end-of-file token; reaching the end of text
// simply ends the loop. A table entry whose regex can match the empty string
// is a grammar-construction error (see package grammar) and is assumed not to
// reach this function, since an empty match here would never advance offset
// and would loop forever.
func Tokenize(table Table, text string, file string, filter bool) ([]parsetree.Token, error) {
	var tokens []parsetree.Token
	offset := 0

	for offset < len(text) {
		pos := parsetree.PositionFromOffset(file, offset, text)

		matchLen := -1
		matchType := ""

		for _, entry := range table.Entries {
			loc := entry.Regex.FindStringIndex(text[offset:])
			if loc == nil || loc[0] != 0 {
				continue
			}
			matchLen = loc[1]
			matchType = entry.Type
			break
		}

		if matchLen < 0 {
			return nil, &Error{Position: pos}
		}

		value := text[offset : offset+matchLen]

		if !(filter && table.Filtered[matchType]) {
			tokens = append(tokens, parsetree.Token{
				Value:    value,
				Type:     matchType,
				Position: pos,
			})
		}

		offset += matchLen
	}

	return tokens, nil
}
