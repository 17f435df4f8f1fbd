package cmd

import (
	"fmt"

	"github.com/grammarkit/grammarkit/pkg/grammar"
	"github.com/spf13/cobra"
)

var validateEntry string

var validateCmd = &cobra.Command{
	Use:   "validate <grammar-file>",
	Short: "Check a grammar file for undefined rule references",
	Long: `Validate loads a grammar file and checks that its entry rule
exists and that every Ref it can reach resolves to a defined rule,
catching the "grammar bug" class of error before it would
otherwise surface as a confusing parse failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateEntry, "entry", "", "entry rule name (defaults to the grammar's declared entry)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	g, declaredEntry, err := loadGrammarFile(args[0])
	if err != nil {
		return err
	}
	entry := validateEntry
	if entry == "" {
		entry = declaredEntry
	}
	if err := grammar.Validate(g, entry); err != nil {
		return err
	}
	fmt.Printf("%s: OK (%d rule(s), entry %q)\n", args[0], len(g), entry)
	return nil
}
