package lexer

import "regexp"

// Entry is one row of a Table: a token type paired with the compiled regex
// that recognizes it.
type Entry struct {
	Type  string
	Regex *regexp.Regexp
}

// Table is an ordered list of token-type/regex pairs plus the set of token
// types that should be dropped from tokenization output when filtering is
// requested. Order is significant: when multiple patterns match at the same
// offset, the first one in the table wins, regardless of match length.
type Table struct {
	Entries []Entry
	Filtered map[string]bool
}

// NewTable builds a Table from entries in priority order. It does not
// validate the entries; callers that load a Table from a grammar description
// should do that validation themselves (see package grammar), since the rules
// for what makes an entry acceptable are part of the grammar format, not of
// tokenization itself.
func NewTable(entries []Entry, filtered map[string]bool) Table {
	if filtered == nil {
		filtered = map[string]bool{}
	}
	return Table{Entries: entries, Filtered: filtered}
}

// Types returns the token types in the table, in table order.
func (t Table) Types() []string {
	types := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		types[i] = e.Type
	}
	return types
}
