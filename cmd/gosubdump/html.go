package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/debugdump"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltok"
	"github.com/npillmayer/gosub/internal/htmltree"
	"github.com/spf13/cobra"
)

var htmlCmd = &cobra.Command{
	Use:   "html [file]",
	Short: "Tokenize and build the DOM tree for an HTML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHTML,
}

func runHTML(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	scripting, _ := cmd.Flags().GetBool("scripting-enabled")

	log := errs.NewLog()
	stream, err := bytestream.New(src, bytestream.UTF8, bytestream.Certain)
	if err != nil {
		return err
	}
	tok := htmltok.New(stream, htmltok.Data, log)
	parser := htmltree.New(tok, log)
	parser.SetScriptingEnabled(scripting)
	arena := parser.Parse()

	fmt.Print(debugdump.Html5LibFormat(arena, arena.Root()))

	printErrors(cmd, log)
	return errIfUnrecovered(cmd, log)
}
