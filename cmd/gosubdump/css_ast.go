package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/spf13/cobra"
	tp "github.com/xlab/treeprint"
)

var cssASTCmd = &cobra.Command{
	Use:   "css-ast [file]",
	Short: "Parse a CSS stylesheet and print its rule-list AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runCSSAST,
}

func runCSSAST(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	matchValues, _ := cmd.Flags().GetBool("match-values")

	log := errs.NewLog()
	stream, err := bytestream.New(src, bytestream.UTF8, bytestream.Certain)
	if err != nil {
		return err
	}
	toks := csstok.New(stream, log).Tokens()
	sheet := cssast.New(toks, log).Parse()

	p := tp.New()
	for _, r := range sheet.Rules {
		ruleNode(p, r, log, matchValues)
	}
	fmt.Print(p.String())

	printErrors(cmd, log)
	return errIfUnrecovered(cmd, log)
}

func ruleNode(p tp.Tree, r cssast.Rule, log *errs.Log, matchValues bool) {
	if r.Kind == cssast.AtRuleKind {
		branch := p.AddBranch(fmt.Sprintf("@%s %s", r.Name, renderComponentValues(r.Prelude)))
		if r.Block != nil {
			for _, d := range cssast.ParseDeclarationList(r.Block, log) {
				declNode(branch, d, matchValues)
			}
		}
		return
	}
	selectors := cssast.ParseSelectorList(r.Prelude, log)
	branch := p.AddBranch(renderSelectorList(selectors))
	if r.Block != nil {
		for _, d := range cssast.ParseDeclarationList(r.Block, log) {
			declNode(branch, d, matchValues)
		}
	}
}

func declNode(p tp.Tree, d cssast.Declaration, matchValues bool) {
	label := fmt.Sprintf("%s: %s", d.Name, renderComponentValues(d.Value))
	if d.Important {
		label += " !important"
	}
	if matchValues && !looksWellFormed(d.Value) {
		label += " (unrecognized value)"
	}
	p.AddNode(label)
}

// looksWellFormed is a coarse --match-values check: a declaration value is
// considered well-formed if it contains at least one non-whitespace token.
func looksWellFormed(vals []cssast.ComponentValue) bool {
	for _, v := range vals {
		if v.Token != nil && v.Token.Type == csstok.Whitespace {
			continue
		}
		return true
	}
	return false
}

func renderSelectorList(selectors []cssast.ComplexSelector) string {
	parts := make([]string, len(selectors))
	for i, s := range selectors {
		parts[i] = renderComplexSelector(s)
	}
	return strings.Join(parts, ", ")
}

func renderComplexSelector(cs cssast.ComplexSelector) string {
	var b strings.Builder
	for i, compound := range cs.Compounds {
		if i > 0 {
			b.WriteString(renderCombinator(cs.Combinators[i-1]))
		}
		b.WriteString(renderCompound(compound))
	}
	return b.String()
}

func renderCombinator(c cssast.Combinator) string {
	switch c {
	case cssast.Child:
		return " > "
	case cssast.NextSibling:
		return " + "
	case cssast.SubsequentSibling:
		return " ~ "
	default:
		return " "
	}
}

func renderCompound(c cssast.CompoundSelector) string {
	var b strings.Builder
	for _, s := range c.Simple {
		switch s.Kind {
		case cssast.UniversalSelector:
			b.WriteString("*")
		case cssast.TypeSelector:
			b.WriteString(s.Name)
		case cssast.IDSelector:
			b.WriteString("#" + s.Name)
		case cssast.ClassSelector:
			b.WriteString("." + s.Name)
		case cssast.AttrSelector:
			fmt.Fprintf(&b, "[%s%s%s]", s.Name, s.AttrOp, s.AttrValue)
		case cssast.PseudoClassSelector:
			b.WriteString(":" + s.Name)
		case cssast.PseudoElementSelector:
			b.WriteString("::" + s.Name)
		}
	}
	return b.String()
}

func renderComponentValues(vals []cssast.ComponentValue) string {
	var b strings.Builder
	for _, v := range vals {
		switch {
		case v.Token != nil:
			renderToken(&b, *v.Token)
		case v.Function != nil:
			fmt.Fprintf(&b, "%s(%s)", v.Function.Name, renderComponentValues(v.Function.Value))
		case v.Block != nil:
			open, shut := blockDelims(v.Block.Open)
			fmt.Fprintf(&b, "%s%s%s", open, renderComponentValues(v.Block.Value), shut)
		}
	}
	return strings.TrimSpace(b.String())
}

func renderToken(b *strings.Builder, t csstok.Token) {
	switch t.Type {
	case csstok.Whitespace:
		b.WriteString(" ")
	case csstok.String:
		fmt.Fprintf(b, "%q", t.Value)
	case csstok.Dimension:
		fmt.Fprintf(b, "%g%s", t.NumValue, t.Unit)
	case csstok.Percentage:
		fmt.Fprintf(b, "%g%%", t.NumValue)
	case csstok.Number:
		fmt.Fprintf(b, "%g", t.NumValue)
	case csstok.Hash:
		fmt.Fprintf(b, "#%s", t.Value)
	case csstok.Colon:
		b.WriteString(":")
	case csstok.Comma:
		b.WriteString(",")
	default:
		b.WriteString(t.Value)
	}
}

func blockDelims(open csstok.Type) (string, string) {
	switch open {
	case csstok.LeftBrace:
		return "{", "}"
	case csstok.LeftBracket:
		return "[", "]"
	default:
		return "(", ")"
	}
}
