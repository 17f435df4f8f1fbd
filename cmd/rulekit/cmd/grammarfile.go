package cmd

import (
	"fmt"
	"os"

	"github.com/grammarkit/grammarkit/pkg/grammar"
)

// loadGrammarFile reads and parses a YAML grammar document, wiring the
// built-in string/number/identifier terminal converters —
// the CLI has no way to register custom terminal callbacks, those are a
// programmatic-API feature (pkg/rulekit).
func loadGrammarFile(path string) (grammar.Grammar, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read grammar file %s: %w", path, err)
	}
	g, entry, err := grammar.Load(data, grammar.LoadOptions{Terminals: grammar.DefaultTerminals()})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load grammar %s: %w", path, err)
	}
	return g, entry, nil
}
