package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rulekit",
	Short: "Run a grammar defined as data against source text",
	Long: `rulekit loads a grammar (a data file describing rules made of
keywords, terminals, references, sequences, options, repeats, and
captures) and runs it against source text, recursive-descent style.

There is no compiled parser per grammar: the same engine interprets
whatever grammar it's given, and reports the furthest point it reached
before failing when no rule matches.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
