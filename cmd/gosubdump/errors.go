package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/spf13/cobra"
)

// printErrors reports a parse log's recorded errors to stderr, one per
// line, unless the --ignore-errors flag is set.
func printErrors(cmd *cobra.Command, log *errs.Log) {
	ignore, _ := cmd.Flags().GetBool("ignore-errors")
	if ignore {
		return
	}
	yellow := color.New(color.FgYellow)
	for _, e := range log.Snapshot() {
		yellow.Fprintln(os.Stderr, e.String())
	}
}

// errIfUnrecovered turns a non-empty, non-ignored error log into a command
// error so the process exits non-zero, per the CLI's "exit 0 on success,
// non-zero on unrecovered error" contract.
func errIfUnrecovered(cmd *cobra.Command, log *errs.Log) error {
	ignore, _ := cmd.Flags().GetBool("ignore-errors")
	if ignore || log.Len() == 0 {
		return nil
	}
	return fmt.Errorf("%d parse error(s)", log.Len())
}
