package parsetree

import (
	"fmt"
	"strings"
)

// Position is a location in a source text, given as a file path plus a
// 1-indexed line and column. A Position is never mutated after it is
// created.
type Position struct {
	File   string
	Line   int
	Column int
}

// PositionFromOffset derives the Position of the given byte offset into text,
// assuming the text came from the named file. Line numbers are 1-based;
// column is the 1-based offset from the preceding newline (or from the start
// of text if offset is on the first line).
func PositionFromOffset(file string, offset int, text string) Position {
	prefix := text[:offset]
	line := 1 + strings.Count(prefix, "\n")

	lastNewline := strings.LastIndexByte(prefix, '\n')
	column := offset - lastNewline

	return Position{File: file, Line: line, Column: column}
}

// String returns the Position in "file:line:col" form.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Less orders Positions lexicographically by (File, Line, Column), so that
// sorting a slice of Positions groups them by file and then by source order.
func (p Position) Less(other Position) bool {
	if p.File != other.File {
		return p.File < other.File
	}
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Context renders the source line the Position refers to, followed by a
// second line with a caret ("^") under the referenced column. source must be
// the full text the Position was derived from.
func (p Position) Context(source string) string {
	lines := strings.Split(source, "\n")
	if p.Line < 1 || p.Line > len(lines) {
		return ""
	}
	line := lines[p.Line-1]

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteByte('\n')
	if p.Column > 1 {
		sb.WriteString(strings.Repeat(" ", p.Column-1))
	}
	sb.WriteString("^\n")
	return sb.String()
}
