package grammar

import "github.com/dekarrin/synparse/combinator"

// bindNodeReferences performs step 9 of grammar loading: walk every node's
// combinator graph and, at each NodeParser leaf, set Inner to the compiled
// root of the node type it names. Node rules are commonly self- or
// mutually-recursive, so by the time this runs every node's ConcatParser
// must already exist — that's why binding is a separate pass after all
// rules have been parsed, rather than something done while a rule is being
// parsed.
//
// Binding does not recurse into a NodeParser's Inner once set: that
// sub-graph is bound by its own top-level entry in nodeParsers, so
// recursing here would walk cyclic grammars forever for no benefit.
func bindNodeReferences(nodeParsers map[string]*combinator.ConcatParser) {
	for _, root := range nodeParsers {
		bindParser(root, nodeParsers)
	}
}

func bindParser(p combinator.Parser, nodeParsers map[string]*combinator.ConcatParser) {
	switch v := p.(type) {
	case *combinator.ConcatParser:
		for _, sub := range v.Parsers {
			bindParser(sub, nodeParsers)
		}
	case *combinator.ChoiceParser:
		for _, sub := range v.Parsers {
			bindParser(sub, nodeParsers)
		}
	case *combinator.OptionalParser:
		bindParser(v.Inner, nodeParsers)
	case *combinator.RepeatParser:
		bindParser(v.Inner, nodeParsers)
	case *combinator.NodeParser:
		v.Inner = nodeParsers[v.NodeType]
	case *combinator.TokenParser:
		// leaf; nothing to bind
	}
}

// computeFirstSet computes the FIRST-set (step 10: "top level tokens") for
// nodeType — the set of token types that may legally begin a parse of that
// node. visiting guards against infinite recursion on (mutually) recursive
// grammars; a node type already being visited contributes no additional
// token types to the set (the caller already sees whatever its own
// expansion contributes elsewhere).
func computeFirstSet(nodeParsers map[string]*combinator.ConcatParser, nodeType string, visiting map[string]bool) map[string]bool {
	if visiting[nodeType] {
		return map[string]bool{}
	}
	visiting[nodeType] = true

	set, _ := firstSetOf(nodeParsers[nodeType], nodeParsers, visiting)
	return set
}

// firstSetOf returns the set of token types that may begin a match of p, and
// whether p can succeed while consuming zero tokens (nullable).
func firstSetOf(p combinator.Parser, nodeParsers map[string]*combinator.ConcatParser, visiting map[string]bool) (map[string]bool, bool) {
	switch v := p.(type) {
	case *combinator.TokenParser:
		return map[string]bool{v.TokenType: true}, false

	case *combinator.NodeParser:
		if visiting[v.NodeType] {
			return map[string]bool{}, false
		}
		visiting[v.NodeType] = true
		return firstSetOf(v.Inner, nodeParsers, visiting)

	case *combinator.ConcatParser:
		set := map[string]bool{}
		for _, sub := range v.Parsers {
			subSet, nullable := firstSetOf(sub, nodeParsers, visiting)
			for t := range subSet {
				set[t] = true
			}
			if !nullable {
				return set, false
			}
		}
		return set, true

	case *combinator.ChoiceParser:
		set := map[string]bool{}
		nullable := false
		for _, sub := range v.Parsers {
			subSet, subNullable := firstSetOf(sub, nodeParsers, visiting)
			for t := range subSet {
				set[t] = true
			}
			if subNullable {
				nullable = true
			}
		}
		return set, nullable

	case *combinator.OptionalParser:
		set, _ := firstSetOf(v.Inner, nodeParsers, visiting)
		return set, true

	case *combinator.RepeatParser:
		set, innerNullable := firstSetOf(v.Inner, nodeParsers, visiting)
		return set, v.Min == 0 || innerNullable

	default:
		return map[string]bool{}, false
	}
}
