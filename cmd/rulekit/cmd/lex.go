package cmd

import (
	"fmt"
	"os"

	"github.com/grammarkit/grammarkit/internal/lexer"
	"github.com/grammarkit/grammarkit/pkg/grammar"
	"github.com/grammarkit/grammarkit/pkg/token"
	"github.com/spf13/cobra"
)

var (
	showPos      bool
	showType     bool
	onlyErrors   bool
	grammarFlag  string
	evalExprFlag string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize source text and print the resulting tokens",
	Long: `Tokenize source text with rulekit's fixed token grammar and print
the resulting tokens, one per line.

If --grammar is given, keywords are extracted from that grammar file
first, so words it reserves are tagged KEYWORD instead of IDENTIFIER.
Without --grammar, every word lexes as IDENTIFIER.

Examples:
  # Tokenize a file
  rulekit lex input.txt

  # Tokenize an inline expression
  rulekit lex -e "x := 42"

  # Reserve the words a grammar declares as keywords
  rulekit lex --grammar grammar.yaml input.txt

  # Show token types and positions
  rulekit lex --show-type --show-pos input.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexSource,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExprFlag, "eval", "e", "", "tokenize inline text instead of reading from file")
	lexCmd.Flags().StringVar(&grammarFlag, "grammar", "", "grammar file to derive the keyword set from")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "exit non-zero if the source cannot be fully tokenized")
}

func lexSource(cmd *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case evalExprFlag != "":
		input = evalExprFlag
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline text")
	}

	keywords := lexer.NewKeywordSet()
	if grammarFlag != "" {
		g, _, err := loadGrammarFile(grammarFlag)
		if err != nil {
			return err
		}
		keywords = grammar.ExtractKeywords(g)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	tokens, err := lexer.Lex(input, keywords)
	if err != nil {
		if onlyErrors {
			return err
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return nil
	}

	count := 0
	for _, tok := range tokens {
		if tok.Kind == token.Whitespace {
			continue
		}
		printToken(tok)
		count++
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", count)
	}

	return nil
}

func printToken(tok token.Token) {
	var output string
	if showType {
		output = fmt.Sprintf("[%-10s]", tok.Kind)
	}
	if tok.Literal == "" {
		output += fmt.Sprintf(" %s", tok.Kind)
	} else {
		output += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(output)
}
