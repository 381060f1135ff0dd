package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose      bool
	toolchainDir string
)

var rootCmd = &cobra.Command{
	Use:   "lbc",
	Short: "LightBASIC compiler front end",
	Long: `lbc is a compiler front end for LightBASIC, a BASIC-dialect source
language.

It consumes .bas source text and drives the lexer, the recursive-descent
parser, the type system, and the semantic analyser. Code generation,
assembling, and linking are external collaborators this front end does
not itself perform.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&toolchainDir, "toolchain", "", "override location of bin/opt, bin/llc, bin/ld")
}
