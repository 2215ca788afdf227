package grammar

import "github.com/dekarrin/synparse/combinator"

// choiceMarker stands in for a '|' segment between the first and second
// passes of rule parsing; it never reaches a combinator.
type choiceMarker struct{}

// ruleItem is either a combinator.Parser or a choiceMarker, threaded through
// the first pass of parseSequence and consumed by resolveChoices in the
// second.
type ruleItem interface{}

// parseRule turns the lexed segments of one node's rule string into a single
// root ConcatParser, validating that every token_ref/node_ref segment names
// a declared type before attempting to build anything.
func parseRule(nodeType string, segments []segment, tokenTypes, nodeTypes map[string]bool) (*combinator.ConcatParser, error) {
	for _, s := range segments {
		if s.kind == segToken && !tokenTypes[s.value] {
			return nil, newLoadError("in rule for node %s: unknown token type %s", nodeType, s.value)
		}
		if s.kind == segNode && !nodeTypes[s.value] {
			return nil, newLoadError("in rule for node %s: unknown node type %s", nodeType, s.value)
		}
	}

	items, err := parseSequence(nodeType, segments)
	if err != nil {
		return nil, err
	}

	return resolveChoices(nodeType, items)
}

// parseSequence is pass one: left to right, token/node refs become leaf
// parsers, a parenthesized group recurses and is fully resolved (including
// its own choices) before being pushed as a single unit, '|' becomes a
// choiceMarker, and a postfix operator pops the parser immediately before it
// and wraps it. This is what makes postfix operators bind tighter than '|':
// by the time the second pass sees a choiceMarker, every postfix operator
// around it has already been applied.
func parseSequence(nodeType string, segments []segment) ([]ruleItem, error) {
	var items []ruleItem
	offset := 0

	for offset < len(segments) {
		s := segments[offset]

		switch s.kind {
		case segToken:
			items = append(items, &combinator.TokenParser{TokenType: s.value})
			offset++

		case segNode:
			items = append(items, &combinator.NodeParser{NodeType: s.value})
			offset++

		case segGroupStart:
			end, err := findGroupEnd(nodeType, segments, offset)
			if err != nil {
				return nil, err
			}
			innerItems, err := parseSequence(nodeType, segments[offset+1:end])
			if err != nil {
				return nil, err
			}
			groupParser, err := resolveChoices(nodeType, innerItems)
			if err != nil {
				return nil, err
			}
			items = append(items, groupParser)
			offset = end + 1

		case segGroupEnd:
			return nil, newLoadError("in rule for node %s: invalid syntax (unmatched ')')", nodeType)

		case segOr:
			items = append(items, choiceMarker{})
			offset++

		case segOptional, segRepeat, segRepeatAtLeastOnce:
			if len(items) == 0 {
				return nil, newLoadError("in rule for node %s: invalid syntax", nodeType)
			}
			last := items[len(items)-1]
			if _, ok := last.(choiceMarker); ok {
				return nil, newLoadError("in rule for node %s: invalid syntax", nodeType)
			}
			items = items[:len(items)-1]
			p := last.(combinator.Parser)

			switch s.kind {
			case segOptional:
				items = append(items, &combinator.OptionalParser{Inner: p})
			case segRepeat:
				items = append(items, &combinator.RepeatParser{Inner: p, Min: 0})
			case segRepeatAtLeastOnce:
				items = append(items, &combinator.RepeatParser{Inner: p, Min: 1})
			}
			offset++
		}
	}

	return items, nil
}

// findGroupEnd finds the index in segments of the ')' that closes the '('
// at segments[start], accounting for nested groups.
func findGroupEnd(nodeType string, segments []segment, start int) (int, error) {
	depth := 1

	for i := start + 1; i < len(segments); i++ {
		switch segments[i].kind {
		case segGroupStart:
			depth++
		case segGroupEnd:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, newLoadError("in rule for node %s: some brackets don't match", nodeType)
}

// resolveChoices is pass two: scan left to right, and whenever a
// choiceMarker is found, pop the parser already collected immediately before
// it and combine it with the parser immediately after it (in the original
// item list, not yet collected) into a ChoiceParser. Consecutive markers,
// markers with nothing before or after them, and an empty overall result are
// all syntax errors.
func resolveChoices(nodeType string, items []ruleItem) (*combinator.ConcatParser, error) {
	var children []combinator.Parser
	offset := 0

	for offset < len(items) {
		item := items[offset]

		if _, ok := item.(choiceMarker); !ok {
			children = append(children, item.(combinator.Parser))
			offset++
			continue
		}

		if len(children) == 0 {
			return nil, newLoadError("in rule for node %s: invalid syntax", nodeType)
		}
		prev := children[len(children)-1]
		children = children[:len(children)-1]

		if offset+1 >= len(items) {
			return nil, newLoadError("in rule for node %s: invalid syntax", nodeType)
		}
		next := items[offset+1]
		if _, ok := next.(choiceMarker); ok {
			return nil, newLoadError("in rule for node %s: invalid syntax", nodeType)
		}

		children = append(children, combinator.NewChoiceParser(prev, next.(combinator.Parser)))
		offset += 2
	}

	if len(children) == 0 {
		return nil, newLoadError("in rule for node %s: empty group is not allowed", nodeType)
	}

	return combinator.NewConcatParser(children), nil
}
