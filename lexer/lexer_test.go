package lexer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTable() Table {
	return NewTable([]Entry{
		{Type: "int", Regex: regexp.MustCompile(`[0-9]+`)},
		{Type: "plus", Regex: regexp.MustCompile(`\+`)},
		{Type: "ws", Regex: regexp.MustCompile(`\s+`)},
	}, map[string]bool{"ws": true})
}

func Test_Tokenize(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		filter     bool
		expectVals []string
		expectErr  bool
	}{
		{
			name:       "simple expression, filtered",
			input:      "1 + 2 + 3",
			filter:     true,
			expectVals: []string{"1", "+", "2", "+", "3"},
		},
		{
			name:       "simple expression, unfiltered keeps whitespace",
			input:      "1 + 2",
			filter:     false,
			expectVals: []string{"1", " ", "+", " ", "2"},
		},
		{
			name:      "unmatched character fails",
			input:     "1 @ 2",
			filter:    true,
			expectErr: true,
		},
		{
			name:       "empty input produces no tokens",
			input:      "",
			filter:     true,
			expectVals: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := Tokenize(testTable(), tc.input, "test.g", tc.filter)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			var vals []string
			for _, tok := range toks {
				vals = append(vals, tok.Value)
			}
			assert.Equal(tc.expectVals, vals)
		})
	}
}

func Test_Tokenize_firstMatchWinsOverLongestMatch(t *testing.T) {
	assert := assert.New(t)

	table := NewTable([]Entry{
		{Type: "kw_if", Regex: regexp.MustCompile(`if`)},
		{Type: "ident", Regex: regexp.MustCompile(`[a-z]+`)},
	}, nil)

	toks, err := Tokenize(table, "iffy", "test.g", true)
	if !assert.NoError(err) {
		return
	}

	// "kw_if" is listed first and matches "if", even though "ident" would
	// have matched the longer "iffy".
	assert.Len(toks, 2)
	assert.Equal("kw_if", toks[0].Type)
	assert.Equal("if", toks[0].Value)
	assert.Equal("ident", toks[1].Type)
	assert.Equal("fy", toks[1].Value)
}

func Test_Tokenize_positionTracksLinesAndColumns(t *testing.T) {
	assert := assert.New(t)

	table := NewTable([]Entry{
		{Type: "word", Regex: regexp.MustCompile(`[a-z]+`)},
		{Type: "nl", Regex: regexp.MustCompile(`\n`)},
	}, nil)

	toks, err := Tokenize(table, "ab\ncd", "test.g", true)
	if !assert.NoError(err) {
		return
	}

	if !assert.Len(toks, 3) {
		return
	}
	assert.Equal(1, toks[0].Position.Line)
	assert.Equal(1, toks[0].Position.Column)
	assert.Equal(2, toks[2].Position.Line)
	assert.Equal(1, toks[2].Position.Column)
}
