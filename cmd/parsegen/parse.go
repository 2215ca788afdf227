package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/synparse"
	"github.com/spf13/pflag"
)

const diagnosticWrapWidth = 80

// runParse implements "parsegen parse": compile a grammar, parse one input
// file (or stdin) against it, and print the resulting tree to stdout.
func runParse(args []string) error {
	fs := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	grammarFile := fs.StringP("grammar", "g", "", "Path to the JSON grammar description to parse against. Required.")
	rootNode := fs.StringP("root", "r", "", "Override the grammar's declared root node type.")
	trace := fs.BoolP("trace", "t", false, "Print a verbose trace of tokenizing and parsing to stderr.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *grammarFile == "" {
		return fmt.Errorf("--grammar is required")
	}

	grammarJSON, err := os.ReadFile(*grammarFile)
	if err != nil {
		return fmt.Errorf("read grammar file: %w", err)
	}

	eng, err := synparse.New(string(grammarJSON))
	if err != nil {
		return fmt.Errorf("load grammar: %w", err)
	}

	inputFile := "-"
	if rest := fs.Args(); len(rest) > 0 {
		inputFile = rest[0]
	}

	var text []byte
	var fileName string
	if inputFile == "-" {
		text, err = io.ReadAll(os.Stdin)
		fileName = "<stdin>"
	} else {
		text, err = os.ReadFile(inputFile)
		fileName = inputFile
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var opts []synparse.ParseOption
	if *rootNode != "" {
		opts = append(opts, synparse.WithRootNodeType(*rootNode))
	}
	if *trace {
		opts = append(opts, synparse.WithTrace(os.Stderr))
	}

	tree, err := eng.Parse(string(text), fileName, opts...)
	if err != nil {
		msg := rosed.Edit(err.Error()).Wrap(diagnosticWrapWidth).String()
		return fmt.Errorf("%s", msg)
	}

	fmt.Println(tree.String())
	return nil
}
