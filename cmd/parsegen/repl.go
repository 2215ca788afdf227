package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/dekarrin/synparse"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// lineReader is the minimal interface runRepl needs from either readline or
// a plain buffered stdin reader, mirroring how the teacher's direct-vs-
// readline command readers are used interchangeably.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type directLineReader struct {
	r *bufio.Reader
}

func (d *directLineReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *directLineReader) Close() error { return nil }

type interactiveLineReader struct {
	rl *readline.Instance
}

func (i *interactiveLineReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (i *interactiveLineReader) Close() error { return i.rl.Close() }

// runRepl implements "parsegen repl": compile a grammar once, then parse
// each line read from stdin against it, printing the resulting tree or
// error before reading the next line. Blank lines are ignored. Entering
// "QUIT" ends the session.
func runRepl(args []string) error {
	fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
	grammarFile := fs.StringP("grammar", "g", "", "Path to the JSON grammar description to parse against. Required.")
	rootNode := fs.StringP("root", "r", "", "Override the grammar's declared root node type.")
	forceDirect := fs.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline.")
	trace := fs.BoolP("trace", "t", false, "Print a verbose trace of tokenizing and parsing for each line.")
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

	var reader lineReader
	if !*forceDirect && isatty.IsTerminal(os.Stdin.Fd()) {
		rl, err := readline.NewEx(&readline.Config{Prompt: "parsegen> "})
		if err != nil {
			return fmt.Errorf("start readline: %w", err)
		}
		reader = &interactiveLineReader{rl: rl}
	} else {
		reader = &directLineReader{r: bufio.NewReader(os.Stdin)}
	}
	defer reader.Close()

	var opts []synparse.ParseOption
	if *rootNode != "" {
		opts = append(opts, synparse.WithRootNodeType(*rootNode))
	}

	lineNum := 0
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}

		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}
		lineNum++

		lineOpts := opts
		if *trace {
			lineOpts = append(lineOpts, synparse.WithTrace(os.Stderr))
		}

		tree, err := eng.Parse(line, fmt.Sprintf("<repl:%d>", lineNum), lineOpts...)
		if err != nil {
			fmt.Println(rosed.Edit(err.Error()).Wrap(diagnosticWrapWidth).String())
			continue
		}
		fmt.Println(tree.String())
	}
}
