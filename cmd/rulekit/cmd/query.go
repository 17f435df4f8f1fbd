package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/grammarkit/grammarkit/pkg/cst"
	"github.com/grammarkit/grammarkit/pkg/rulekit"
	"github.com/spf13/cobra"
)

var (
	queryGrammar string
	queryEntry   string
	queryDebug   bool
)

var queryCmd = &cobra.Command{
	Use:   "query <path> [file]",
	Short: "Parse source text and pull one field out of the resulting tree",
	Long: `Query parses source text against a grammar and evaluates a
gjson path expression (https://github.com/tidwall/gjson#path-syntax)
against the JSON rendering of the resulting tree, printing a matched
string without its JSON quotes and any other matched value as JSON.

If no file is provided, reads from stdin.
Use --debug to keep keyword nodes and source positions queryable.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryGrammar, "grammar", "g", "", "grammar file to parse against (required)")
	queryCmd.Flags().StringVar(&queryEntry, "entry", "", "entry rule name (defaults to the grammar's declared entry)")
	queryCmd.Flags().BoolVar(&queryDebug, "debug", false, "keep keyword nodes and source line/column in the tree")
	_ = queryCmd.MarkFlagRequired("grammar")
}

func runQuery(cmd *cobra.Command, args []string) error {
	path := args[0]

	var input string
	switch {
	case len(args) > 1:
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	g, declaredEntry, err := loadGrammarFile(queryGrammar)
	if err != nil {
		return err
	}
	entry := queryEntry
	if entry == "" {
		entry = declaredEntry
	}

	p, err := rulekit.New(g, entry, queryDebug)
	if err != nil {
		return fmt.Errorf("grammar error: %w", err)
	}

	node, err := p.Parse(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, rulekit.Diagnose(err, input))
		return fmt.Errorf("parse failed")
	}

	result, err := cst.Query(node, path)
	if err != nil {
		return err
	}
	var str string
	if json.Unmarshal([]byte(result), &str) == nil {
		result = str
	}
	fmt.Println(result)
	return nil
}
