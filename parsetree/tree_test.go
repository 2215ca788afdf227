package parsetree

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func Test_Flatten(t *testing.T) {
	testCases := []struct {
		name   string
		input  InnerTree
		expect *Node
	}{
		{
			name: "no anonymous children is a no-op",
			input: InnerTree{
				Type: strp("ROOT"),
				Children: []Child{
					Token{Type: "int", Value: "1"},
				},
			},
			expect: &Node{
				Type:     "ROOT",
				Children: []Child{Token{Type: "int", Value: "1"}},
			},
		},
		{
			name: "one anonymous layer is spliced",
			input: InnerTree{
				Type: strp("EXPR"),
				Children: []Child{
					Token{Type: "int", Value: "1"},
					&InnerTree{
						Children: []Child{
							Token{Type: "plus", Value: "+"},
							Token{Type: "int", Value: "2"},
						},
					},
				},
			},
			expect: &Node{
				Type: "EXPR",
				Children: []Child{
					Token{Type: "int", Value: "1"},
					Token{Type: "plus", Value: "+"},
					Token{Type: "int", Value: "2"},
				},
			},
		},
		{
			name: "nested anonymous layers are spliced to a fixed point",
			input: InnerTree{
				Type: strp("EXPR"),
				Children: []Child{
					&InnerTree{
						Children: []Child{
							&InnerTree{
								Children: []Child{
									Token{Type: "int", Value: "1"},
								},
							},
						},
					},
				},
			},
			expect: &Node{
				Type:     "EXPR",
				Children: []Child{Token{Type: "int", Value: "1"}},
			},
		},
		{
			name: "typed children are flattened but not spliced",
			input: InnerTree{
				Type: strp("ROOT"),
				Children: []Child{
					&InnerTree{
						Type: strp("EXPR"),
						Children: []Child{
							Token{Type: "int", Value: "1"},
						},
					},
				},
			},
			expect: &Node{
				Type: "ROOT",
				Children: []Child{
					&Node{Type: "EXPR", Children: []Child{Token{Type: "int", Value: "1"}}},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			got := tc.input.Flatten()
			if diff := cmp.Diff(tc.expect, got); diff != "" {
				assert.Fail("flattened tree did not match", diff)
			}
			assert.True(tc.expect.Equal(got))
		})
	}
}

func Test_Flatten_panicsOnAnonymousRoot(t *testing.T) {
	assert := assert.New(t)

	it := InnerTree{Children: []Child{Token{Type: "int", Value: "1"}}}
	assert.Panics(func() { it.Flatten() })
}

func Test_Node_Equal(t *testing.T) {
	assert := assert.New(t)

	a := &Node{Type: "EXPR", Children: []Child{Token{Type: "int", Value: "1"}}}
	b := &Node{Type: "EXPR", Children: []Child{Token{Type: "int", Value: "1"}}}
	c := &Node{Type: "EXPR", Children: []Child{Token{Type: "int", Value: "2"}}}

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
	assert.False(a.Equal(nil))
}

func Test_Node_MarshalJSON(t *testing.T) {
	assert := assert.New(t)

	n := &Node{
		Type: "EXPR",
		Children: []Child{
			Token{Type: "int", Value: "1"},
			&Node{Type: "TAIL", Children: []Child{Token{Type: "plus", Value: "+"}}},
		},
	}

	out, err := json.Marshal(n)
	if !assert.NoError(err) {
		return
	}

	var decoded map[string]interface{}
	if !assert.NoError(json.Unmarshal(out, &decoded)) {
		return
	}
	assert.Equal("EXPR", decoded["type"])
	children, ok := decoded["children"].([]interface{})
	if assert.True(ok) {
		assert.Len(children, 2)
	}
}

func Test_Node_String(t *testing.T) {
	assert := assert.New(t)

	n := &Node{
		Type: "EXPR",
		Children: []Child{
			Token{Type: "int", Value: "1"},
			Token{Type: "plus", Value: "+"},
		},
	}

	s := n.String()
	assert.Contains(s, "(EXPR)")
	assert.Contains(s, `(TOKEN int "1")`)
	assert.Contains(s, `(TOKEN plus "+")`)
}
