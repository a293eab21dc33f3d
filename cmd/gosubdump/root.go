// Command gosubdump parses HTML or CSS input and prints one stage of the
// pipeline's intermediate representation, for inspection and for driving
// html5lib-style conformance fixtures from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gosubdump",
	Short: "Dump intermediate stages of the HTML/CSS parsing pipeline",
	Long: `gosubdump reads a single HTML or CSS file and prints one stage of
the pipeline: the constructed DOM tree in html5lib line syntax, the raw
CSS token stream, or the CSS rule-list AST.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("ignore-errors", false, "do not print recovered parse errors")
	rootCmd.PersistentFlags().Bool("scripting-enabled", false, "parse as though scripting were enabled (affects <noscript>)")
	rootCmd.PersistentFlags().Bool("match-values", false, "mark declarations whose value is empty or whitespace-only (css-ast)")

	rootCmd.AddCommand(htmlCmd)
	rootCmd.AddCommand(cssTokensCmd)
	rootCmd.AddCommand(cssASTCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
