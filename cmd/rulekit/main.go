// Command rulekit is the CLI front end for the grammarkit parsing engine:
// lex, parse, validate, and query a grammar against source text without
// writing any Go code.
package main

import (
	"fmt"
	"os"

	"github.com/grammarkit/grammarkit/cmd/rulekit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
