package synparse

import (
	"fmt"
	"io"

	"github.com/dekarrin/synparse/parsetree"
)

// writeTokenTrace prints one line per token, in the original's verbose
// lexing style: position, token type padded to the width of the widest
// declared type name, and the lexed value.
func writeTokenTrace(w io.Writer, tokens []parsetree.Token, allTypes []string) {
	width := maxTokenTypeWidth(allTypes)
	for _, t := range tokens {
		fmt.Fprintf(w, "%s | %-*s | %q\n", t.Position, width, t.Type, t.Value)
	}
}

func maxTokenTypeWidth(types []string) int {
	width := 0
	for _, t := range types {
		if len(t) > width {
			width = len(t)
		}
	}
	return width
}
