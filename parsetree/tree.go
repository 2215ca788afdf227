package parsetree

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	treeLevelEmpty      = "        "
	treeLevelOngoing    = "  |     "
	treeLevelPrefix     = "  |%s: "
	treeLevelPrefixLast = `  \%s: `
)

// Child is anything that can appear as a child of an InnerTree or Node: either
// a lexed Token or another tree node.
type Child interface {
	isChild()
}

func (Token) isChild() {}

// InnerTree is the anonymous scaffolding tree a parser combinator produces.
// Type is nil for the InnerTree built by Concat, Optional, or Repeat with no
// node-type label attached; such trees are erased by Flatten. A non-nil Type
// marks the root of what will become one typed Node once flattened.
type InnerTree struct {
	Type     *string
	Children []Child
}

func (*InnerTree) isChild() {}

// Named returns a copy of it with Type set to the given node type. Used by the
// grammar loader once a node's Concat parser is constructed, to attach the
// node's name to the tree it produces.
func (it InnerTree) Named(nodeType string) InnerTree {
	it.Type = &nodeType
	return it
}

// Flatten collapses it into a typed Node. it.Type must be non-nil; Flatten
// panics otherwise, since an anonymous tree has nothing to attach typed output
// to.
//
// Any direct or indirect child that is itself an anonymous InnerTree (Type ==
// nil) is spliced in place of appearing as a child: its own children take its
// place, recursively, until no anonymous layers remain. Tokens pass through
// unchanged; typed children are flattened in turn.
func (it InnerTree) Flatten() *Node {
	if it.Type == nil {
		panic("cannot flatten an InnerTree with no node type")
	}

	children := it.Children

	for {
		var spliced []Child
		needsMore := false

		for _, child := range children {
			switch c := child.(type) {
			case Token:
				spliced = append(spliced, c)
			case *InnerTree:
				if c.Type == nil {
					needsMore = true
					spliced = append(spliced, c.Children...)
				} else {
					spliced = append(spliced, c)
				}
			default:
				panic(fmt.Sprintf("unexpected child type %T", child))
			}
		}

		children = spliced
		if !needsMore {
			break
		}
	}

	node := &Node{Type: *it.Type}
	for _, child := range children {
		switch c := child.(type) {
		case Token:
			node.Children = append(node.Children, c)
		case *InnerTree:
			node.Children = append(node.Children, c.Flatten())
		}
	}

	return node
}

// Node is the typed output tree produced by Flatten: the public result of a
// parse. Every Node has a Type; no child of a Node is ever an anonymous
// InnerTree.
type Node struct {
	Type     string
	Children []Child
}

func (*Node) isChild() {}

// String returns a multi-line, indented representation of the tree suitable
// for test comparisons and debugging.
func (n *Node) String() string {
	return n.leveledString("", "")
}

func (n *Node) leveledString(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	sb.WriteString(fmt.Sprintf("(%s)", n.Type))

	for i, child := range n.Children {
		sb.WriteByte('\n')
		var childFirst, childCont string
		if i+1 < len(n.Children) {
			childFirst = contPrefix + fmt.Sprintf(treeLevelPrefix, "")
			childCont = contPrefix + treeLevelOngoing
		} else {
			childFirst = contPrefix + fmt.Sprintf(treeLevelPrefixLast, "")
			childCont = contPrefix + treeLevelEmpty
		}

		switch c := child.(type) {
		case Token:
			sb.WriteString(childFirst)
			sb.WriteString(fmt.Sprintf("(TOKEN %s %q)", c.Type, c.Value))
		case *Node:
			sb.WriteString(c.leveledString(childFirst, childCont))
		}
	}

	return sb.String()
}

// Equal reports whether n and o have the exact same type, children, and
// token values — i.e. whether they are structurally identical trees.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Type != o.Type || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		switch a := n.Children[i].(type) {
		case Token:
			b, ok := o.Children[i].(Token)
			if !ok || a != b {
				return false
			}
		case *Node:
			b, ok := o.Children[i].(*Node)
			if !ok || !a.Equal(b) {
				return false
			}
		}
	}
	return true
}

// jsonChild is the wire representation shared by token and node children when
// marshaling a Node to JSON (see original_source's InnerNode.as_json /
// Node.as_json).
type jsonChild struct {
	Token    *tokenJSON `json:"token,omitempty"`
	Node     *nodeJSON  `json:"node,omitempty"`
}

type tokenJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type nodeJSON struct {
	Type     string      `json:"type"`
	Children []jsonChild `json:"children"`
}

func toNodeJSON(n *Node) nodeJSON {
	out := nodeJSON{Type: n.Type, Children: make([]jsonChild, 0, len(n.Children))}
	for _, child := range n.Children {
		switch c := child.(type) {
		case Token:
			out.Children = append(out.Children, jsonChild{Token: &tokenJSON{Type: c.Type, Value: c.Value}})
		case *Node:
			sub := toNodeJSON(c)
			out.Children = append(out.Children, jsonChild{Node: &sub})
		}
	}
	return out
}

// MarshalJSON renders the tree as nested {"type", "children"} objects, with
// each child tagged as either a "token" or a "node" entry.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toNodeJSON(n))
}
