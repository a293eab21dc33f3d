// Package cssast implements the CSS Syntax Level 3 recursive-descent parser
// (§4.3): stylesheets, at-rules, qualified (style) rules, declaration
// lists, selector lists and the an+b micro-grammar, built over tokens from
// internal/csstok.
package cssast

import (
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
)

// ComponentValue is either a preserved token, a simple block, or a
// function call, per §4.3's "component value" grammar.
type ComponentValue struct {
	Token    *csstok.Token
	Block    *SimpleBlock
	Function *Function
}

// SimpleBlock is a {}/[]/() delimited run of component values.
type SimpleBlock struct {
	Open  csstok.Type // LeftBrace, LeftBracket or LeftParen
	Value []ComponentValue
}

// Function is a `name(...)` component value.
type Function struct {
	Name  string
	Value []ComponentValue
}

// RuleKind tags a Rule's variant.
type RuleKind int

const (
	QualifiedRuleKind RuleKind = iota
	AtRuleKind
)

// Rule is either a qualified (style) rule or an at-rule.
type Rule struct {
	Kind     RuleKind
	Location errs.Location

	// AtRule payload.
	Name string

	Prelude []ComponentValue
	Block   *SimpleBlock // nil for at-rules ending in ';'
}

// Stylesheet is the top-level parse result: a flat list of rules in
// document order, before any lowering to cascade-ready form (that is
// internal/cssom's job).
type Stylesheet struct {
	Rules []Rule
}

// Declaration is one `name: value [!important]` pair from inside a rule's
// block.
type Declaration struct {
	Name      string
	Value     []ComponentValue
	Important bool
	Location  errs.Location
}
