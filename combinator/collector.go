package combinator

import (
	"fmt"
	"io"
)

// Collector accumulates every ParseError registered during a single parse,
// so that the furthest-progress failure can be reconstructed even after a
// higher-level alternative goes on to succeed. A Collector is scoped to one
// call to Parse on a root node — this departs from the approach of globally
// attaching one collector to the combinator graph at load time, since doing
// that would make it unsafe to run two parses against the same grammar
// concurrently.
type Collector struct {
	errors []*ParseError
	trace  io.Writer
}

// NewCollector returns an empty Collector, ready to be threaded through one
// parse.
func NewCollector() *Collector {
	return &Collector{}
}

// SetTrace makes every subsequent combinator invocation on this Collector
// write one line to w: the combinator's label, the offset it was invoked at,
// and the type of the token sitting at that offset (or "EOF"). A nil w (the
// default) disables tracing.
func (c *Collector) SetTrace(w io.Writer) {
	c.trace = w
}

// traceEnter logs one combinator invocation, if tracing is enabled.
func (c *Collector) traceEnter(label string, offset int, in Input) {
	if c.trace == nil {
		return
	}
	next := "EOF"
	if offset < len(in.Tokens) {
		next = in.Tokens[offset].Type
	}
	fmt.Fprintf(c.trace, "%s | offset=%d | next=%s | %s\n", in.File, offset, next, label)
}

// Register records e. Success elsewhere does not remove or invalidate a
// previously registered error — every failure a combinator raises is kept,
// even ones from branches that the overall parse ultimately didn't take.
func (c *Collector) Register(e *ParseError) {
	c.errors = append(c.errors, e)
}

// HasErrors reports whether any error has been registered. A root parse that
// succeeds but leaves input unconsumed needs this to decide whether Furthest
// already has something useful to say about why matching stopped there, or
// whether it has to fall back to a node type's top-level tokens instead.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Furthest partitions the registered errors by Offset and returns a single
// ParseError for the maximum offset, with Expected the union of every error
// seen at that offset and Found copied from one of them (they all refer to
// the same position, so any one is representative). Furthest panics if no
// errors were ever registered.
func (c *Collector) Furthest() *ParseError {
	if len(c.errors) == 0 {
		panic("no errors were collected")
	}

	maxOffset := -1
	var atMax []*ParseError

	for _, e := range c.errors {
		if e.Offset > maxOffset {
			maxOffset = e.Offset
			atMax = []*ParseError{e}
		} else if e.Offset == maxOffset {
			atMax = append(atMax, e)
		}
	}

	expected := map[string]bool{}
	for _, e := range atMax {
		for t := range e.Expected {
			expected[t] = true
		}
	}

	return &ParseError{
		Offset:   maxOffset,
		Found:    atMax[0].Found,
		Expected: expected,
	}
}
