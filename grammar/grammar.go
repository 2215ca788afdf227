// Package grammar loads a JSON grammar description into Grammar: a token
// table plus a map of node type to compiled root combinator.Parser, ready to
// drive a recursive-descent parse.
package grammar

import (
	"encoding/json"
	"regexp"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dekarrin/synparse/combinator"
	"github.com/dekarrin/synparse/lexer"
)

var (
	tokenTypeRegex = regexp.MustCompile(`^[a-z][a-z_]*$`)
	nodeTypeRegex  = regexp.MustCompile(`^[A-Z][A-Z_]*$`)
)

// Grammar is the compiled form of a grammar description: a token table ready
// for package lexer, a root combinator.Parser per declared node type, and
// the bookkeeping needed to render "expected one of ..." diagnostics.
type Grammar struct {
	// Table is the ordered token-type/regex list, with the filtered-token
	// set attached, ready to hand to lexer.Tokenize.
	Table lexer.Table

	// RootNodeType is the node type a parse starts from when none is given
	// explicitly.
	RootNodeType string

	// nodeParsers holds every node's root ConcatParser, keyed by node type.
	nodeParsers map[string]*combinator.ConcatParser

	// topLevelTokens is node type -> set of token types that may legally
	// begin a parse of that node (its FIRST-set), used only to render
	// "expected one of ..." once a parse leaves unconsumed input.
	topLevelTokens map[string]map[string]bool

	tokenTypes map[string]bool
	nodeTypes  map[string]bool
}

// rawGrammar is the intermediate, type-checked (but not yet semantically
// validated) form of the five expected top-level JSON fields.
type rawGrammar struct {
	keywordOrder []string
	keywordMap   map[string]string
	regularOrder []string
	regularMap   map[string]string
	filtered     []string
	nodes        map[string]string
	rootNode     string
}

// Source is the decoded-but-not-yet-compiled form of a grammar description:
// everything the JSON-decoding step of Load produces. It is exported so that
// package cache can persist it between process runs and skip re-decoding and
// re-validating the same grammar JSON text on a later load; LoadSource picks
// up the pipeline at the point Load would have, right after decode.
type Source struct {
	KeywordOrder   []string
	KeywordTokens  map[string]string
	RegularOrder   []string
	RegularTokens  map[string]string
	FilteredTokens []string
	Nodes          map[string]string
	RootNode       string
}

func (raw *rawGrammar) toSource() Source {
	return Source{
		KeywordOrder:   raw.keywordOrder,
		KeywordTokens:  raw.keywordMap,
		RegularOrder:   raw.regularOrder,
		RegularTokens:  raw.regularMap,
		FilteredTokens: raw.filtered,
		Nodes:          raw.nodes,
		RootNode:       raw.rootNode,
	}
}

func (src Source) toRaw() *rawGrammar {
	return &rawGrammar{
		keywordOrder: src.KeywordOrder,
		keywordMap:   src.KeywordTokens,
		regularOrder: src.RegularOrder,
		regularMap:   src.RegularTokens,
		filtered:     src.FilteredTokens,
		nodes:        src.Nodes,
		rootNode:     src.RootNode,
	}
}

// Load compiles a grammar description (the contents of a grammar JSON file)
// into a Grammar. It performs, in order: JSON decoding, schema and type
// checking, token table assembly, identifier/reference validation, rule
// lexing and parsing for every node, and reference binding. Any problem at
// any of those stages is reported as a *LoadError.
func Load(jsonText string) (*Grammar, error) {
	raw, err := decode(jsonText)
	if err != nil {
		return nil, err
	}

	return LoadSource(raw.toSource())
}

// Decode parses and schema/type-checks jsonText (Load's steps 1-3) without
// compiling it, returning the Source that LoadSource can later compile. This
// is what package cache calls before checking whether a compiled Grammar for
// this Source is already cached on disk.
func Decode(jsonText string) (Source, error) {
	raw, err := decode(jsonText)
	if err != nil {
		return Source{}, err
	}
	return raw.toSource(), nil
}

// LoadSource compiles an already-decoded Source the rest of the way: token
// table assembly, validation, rule lexing/parsing, and reference binding.
func LoadSource(source Source) (*Grammar, error) {
	raw := source.toRaw()

	tableEntries, tokenTypes, err := buildTokenTable(raw)
	if err != nil {
		return nil, err
	}

	filteredSet := map[string]bool{}
	for _, t := range raw.filtered {
		filteredSet[t] = true
	}

	nodeTypes := map[string]bool{}
	for n := range raw.nodes {
		nodeTypes[n] = true
	}

	if err := validate(raw, tokenTypes, nodeTypes, filteredSet); err != nil {
		return nil, err
	}

	g := &Grammar{
		Table:          lexer.NewTable(tableEntries, filteredSet),
		RootNodeType:   raw.rootNode,
		nodeParsers:    map[string]*combinator.ConcatParser{},
		topLevelTokens: map[string]map[string]bool{},
		tokenTypes:     tokenTypes,
		nodeTypes:      nodeTypes,
	}

	for nodeType, rule := range raw.nodes {
		segments, err := lexRule(nodeType, rule)
		if err != nil {
			return nil, err
		}

		parser, err := parseRule(nodeType, segments, tokenTypes, nodeTypes)
		if err != nil {
			return nil, err
		}

		g.nodeParsers[nodeType] = parser
	}

	bindNodeReferences(g.nodeParsers)

	for nodeType, parser := range g.nodeParsers {
		labeled := nodeType
		parser.NodeType = &labeled
		g.topLevelTokens[nodeType] = computeFirstSet(g.nodeParsers, nodeType, map[string]bool{})
	}

	return g, nil
}

// Node returns the root combinator.Parser for the given node type, and
// whether that node type was declared in the grammar.
func (g *Grammar) Node(nodeType string) (*combinator.ConcatParser, bool) {
	p, ok := g.nodeParsers[nodeType]
	return p, ok
}

// TopLevelTokens returns the FIRST-set (§4.C step 10) for the given node
// type: the set of token types that may legally open a parse of that node.
func (g *Grammar) TopLevelTokens(nodeType string) map[string]bool {
	return g.topLevelTokens[nodeType]
}

// NodeTypes returns every declared node type, sorted.
func (g *Grammar) NodeTypes() []string {
	types := make([]string, 0, len(g.nodeParsers))
	for t := range g.nodeParsers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func decode(jsonText string) (*rawGrammar, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &root); err != nil {
		return nil, newLoadError("parse error: %s", err)
	}

	expected := map[string]bool{
		"filtered_tokens": true, "keyword_tokens": true, "nodes": true,
		"regular_tokens": true, "root_node": true,
	}

	var unexpected []string
	for k := range root {
		if !expected[k] {
			unexpected = append(unexpected, k)
		}
	}
	var missing []string
	for k := range expected {
		if _, ok := root[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(unexpected)
	sort.Strings(missing)

	if len(unexpected) > 0 {
		return nil, newLoadError("unexpected fields in JSON root: %s", joinComma(unexpected))
	}
	if len(missing) > 0 {
		return nil, newLoadError("missing fields in JSON root: %s", joinComma(missing))
	}

	raw := &rawGrammar{}

	var err error
	raw.keywordOrder, raw.keywordMap, err = decodeOrderedStringMap(root["keyword_tokens"])
	if err != nil {
		return nil, newLoadError("keyword_tokens: %s", err)
	}
	raw.regularOrder, raw.regularMap, err = decodeOrderedStringMap(root["regular_tokens"])
	if err != nil {
		return nil, newLoadError("regular_tokens: %s", err)
	}

	if err := json.Unmarshal(root["filtered_tokens"], &raw.filtered); err != nil {
		return nil, newLoadError("filtered_tokens is not a list of strings: %s", err)
	}

	if err := json.Unmarshal(root["nodes"], &raw.nodes); err != nil {
		return nil, newLoadError("nodes is not an object of string to string: %s", err)
	}

	if err := json.Unmarshal(root["root_node"], &raw.rootNode); err != nil {
		return nil, newLoadError("root_node is not a string: %s", err)
	}

	return raw, nil
}

// decodeOrderedStringMap decodes a JSON object of string to string,
// preserving the order keys first appeared in the source text — order
// matters for keyword_tokens/regular_tokens, since it defines tokenizer
// match priority, and a plain map[string]string decode would discard it.
func decodeOrderedStringMap(raw json.RawMessage) ([]string, map[string]string, error) {
	om := orderedmap.New[string, string]()
	if err := json.Unmarshal(raw, om); err != nil {
		return nil, nil, err
	}

	order := make([]string, 0, om.Len())
	m := make(map[string]string, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
		m[pair.Key] = pair.Value
	}

	return order, m, nil
}

func buildTokenTable(raw *rawGrammar) ([]lexer.Entry, map[string]bool, error) {
	var entries []lexer.Entry
	seen := map[string]bool{}

	appendTokens := func(order []string, m map[string]string) error {
		for _, tokenType := range order {
			if seen[tokenType] {
				return newLoadError("duplicate token type %s", tokenType)
			}

			pattern, err := regexp.Compile(m[tokenType])
			if err != nil {
				return newLoadError("failed to compile regex for token type %s", tokenType)
			}
			if pattern.MatchString("") {
				return newLoadError("token type %s matches the empty string, which would loop forever", tokenType)
			}

			seen[tokenType] = true
			entries = append(entries, lexer.Entry{Type: tokenType, Regex: pattern})
		}
		return nil
	}

	if err := appendTokens(raw.keywordOrder, raw.keywordMap); err != nil {
		return nil, nil, err
	}
	if err := appendTokens(raw.regularOrder, raw.regularMap); err != nil {
		return nil, nil, err
	}

	return entries, seen, nil
}

func validate(raw *rawGrammar, tokenTypes, nodeTypes, filtered map[string]bool) error {
	var missingFiltered []string
	for t := range filtered {
		if !tokenTypes[t] {
			missingFiltered = append(missingFiltered, t)
		}
	}
	sort.Strings(missingFiltered)
	if len(missingFiltered) > 0 {
		return newLoadError("unknown filtered token type(s): %s", joinComma(missingFiltered))
	}

	if !nodeTypes[raw.rootNode] {
		return newLoadError("root node was not found in nodes")
	}

	for t := range tokenTypes {
		if !tokenTypeRegex.MatchString(t) {
			return newLoadError("token %s has wrong formatting", t)
		}
	}
	for n := range nodeTypes {
		if !nodeTypeRegex.MatchString(n) {
			return newLoadError("node %s has wrong formatting", n)
		}
	}

	return nil
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
