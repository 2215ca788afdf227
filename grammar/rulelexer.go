package grammar

import "regexp"

// segmentType identifies what kind of lexeme a rule-string segment is.
type segmentType int

const (
	segToken segmentType = iota
	segNode
	segWhitespace
	segGroupStart
	segGroupEnd
	segOr
	segOptional
	segRepeat
	segRepeatAtLeastOnce
)

// segment is one lexeme produced by lexing a node's rule string.
type segment struct {
	kind  segmentType
	value string
}

// ruleSegmentPatterns is the fixed, ordered micro-lexer table for rule
// strings: token_ref and node_ref come first (their character classes are
// disjoint by case, so order between them doesn't matter, but both must
// precede the punctuation patterns since e.g. "(" could never be confused
// with an identifier anyway); first match wins, same as the main tokenizer.
var ruleSegmentPatterns = []struct {
	kind  segmentType
	regex *regexp.Regexp
}{
	{segToken, regexp.MustCompile(`^[a-z][a-z_]*`)},
	{segNode, regexp.MustCompile(`^[A-Z][A-Z_]*`)},
	{segWhitespace, regexp.MustCompile(`^\s+`)},
	{segGroupStart, regexp.MustCompile(`^\(`)},
	{segGroupEnd, regexp.MustCompile(`^\)`)},
	{segOr, regexp.MustCompile(`^\|`)},
	{segOptional, regexp.MustCompile(`^\?`)},
	{segRepeat, regexp.MustCompile(`^\*`)},
	{segRepeatAtLeastOnce, regexp.MustCompile(`^\+`)},
}

// lexRule tokenizes a node's rule string into segments, anchoring each
// pattern at the current offset and taking the first one in
// ruleSegmentPatterns that matches. Whitespace segments are dropped before
// returning. A stretch of input matching none of the patterns is a LoadError
// citing the node and the offending offset.
func lexRule(nodeType, rule string) ([]segment, error) {
	var segments []segment
	offset := 0

	for offset < len(rule) {
		matched := false

		for _, p := range ruleSegmentPatterns {
			loc := p.regex.FindStringIndex(rule[offset:])
			if loc == nil {
				continue
			}
			matched = true
			value := rule[offset : offset+loc[1]]
			if p.kind != segWhitespace {
				segments = append(segments, segment{kind: p.kind, value: value})
			}
			offset += loc[1]
			break
		}

		if !matched {
			return nil, newLoadError(
				"could not lex rule for node %s, error at offset %d", nodeType, offset,
			)
		}
	}

	return segments, nil
}
