package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/spf13/cobra"
)

var cssTokensCmd = &cobra.Command{
	Use:   "css-tokens [file]",
	Short: "Tokenize a CSS stylesheet and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runCSSTokens,
}

func runCSSTokens(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	log := errs.NewLog()
	stream, err := bytestream.New(src, bytestream.UTF8, bytestream.Certain)
	if err != nil {
		return err
	}
	tok := csstok.New(stream, log)
	for _, t := range tok.Tokens() {
		fmt.Println(formatToken(t))
	}

	printErrors(cmd, log)
	return errIfUnrecovered(cmd, log)
}

func formatToken(t csstok.Token) string {
	switch t.Type {
	case csstok.Number, csstok.Percentage, csstok.Dimension:
		return fmt.Sprintf("%s %g%s at %s", t.Type, t.NumValue, t.Unit, t.Location)
	case csstok.Whitespace, csstok.EOF, csstok.Colon, csstok.Semicolon, csstok.Comma,
		csstok.LeftBrace, csstok.RightBrace, csstok.LeftBracket, csstok.RightBracket,
		csstok.LeftParen, csstok.RightParen, csstok.CDO, csstok.CDC:
		return fmt.Sprintf("%s at %s", t.Type, t.Location)
	default:
		return fmt.Sprintf("%s %q at %s", t.Type, t.Value, t.Location)
	}
}
