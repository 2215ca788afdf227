/*
Parsegen compiles a JSON grammar description into a tokenizer and
recursive-descent parser and uses it to parse text, either as a one-shot
operation, interactively in a REPL, or behind an HTTP API.

Usage:

	parsegen [flags] <command> [args]

The commands are:

	parse
		Parse a file (or stdin) against a grammar and print the resulting
		tree. See "parsegen parse -h" for its flags.

	repl
		Start an interactive session that reads lines of text, parses each
		against a grammar, and prints the resulting tree or error.
		See "parsegen repl -h" for its flags.

	serve
		Start the grammar-management and parse-text HTTP API.
		See "parsegen serve -h" for its flags.

The flags are:

	-v, --version
		Give the current version of parsegen and then exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/synparse/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad flags or arguments were given.
	ExitUsageError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading the grammar or connecting to the configured backend.
	ExitInitError

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem encountered while running the selected command.
	ExitRunError
)

var flagVersion = pflag.BoolP("version", "v", false, "Give the current version of parsegen and then exit.")

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("parsegen %s\n", version.Current)
		os.Exit(ExitSuccess)
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "No command given.\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "parse":
		err = runParse(rest)
	case "repl":
		err = runRepl(rest)
	case "serve":
		err = runServe(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\nDo -h for help.\n", cmd)
		os.Exit(ExitUsageError)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitRunError)
	}
}
