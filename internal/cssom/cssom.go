// Package cssom lowers a cssast.Stylesheet into the flat, cascade-ready
// structure described by §4.4: at-rules are evaluated against a static
// environment and either dropped or lifted, selector preludes are parsed
// with cssast.ParseSelectorList (which already types attribute matchers as
// cssast.AttrMatcher), and declaration values are lowered from raw
// component values into CssValue.
package cssom

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.cssom")
}

// Origin records which cascade origin a rule came from (§4.5 cascade
// order is keyed on origin-weight first).
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

// StyleRule is one lowered qualified rule: a selector list plus its
// resolved declarations.
type StyleRule struct {
	Selectors    []cssast.ComplexSelector
	Declarations []Declaration
	Origin       Origin
	// Sequence is the rule's position in document order across the whole
	// cascade input, used as the final cascade-order tiebreaker (§8
	// "Cascade order").
	Sequence int
	Location errs.Location
}

// Declaration is a lowered property/value pair ready for the cascade.
type Declaration struct {
	Property  string
	Value     CssValue
	Important bool
	Location  errs.Location
}

// Stylesheet is the flat, post-lowering result of one parsed CSS source.
type Stylesheet struct {
	Rules []StyleRule
}

// Environment is the static evaluation context against which @media and
// @supports conditions are tested.
type Environment struct {
	MediaType       string
	ViewportWidth   float64
	ViewportHeight  float64
	SupportedProps  map[string]bool
}

// Lower walks sheet top-down, evaluating at-rules against env and
// producing the flat rule list. origin and startSeq let callers lower
// several stylesheets (user-agent, user, author) into one cascade input
// with a continuous document-order sequence counter.
func Lower(sheet *cssast.Stylesheet, env Environment, origin Origin, startSeq int, log *errs.Log) (*Stylesheet, int) {
	out := &Stylesheet{}
	seq := startSeq
	lowerRuleList(sheet.Rules, env, origin, &seq, out, log)
	return out, seq
}

func lowerRuleList(rules []cssast.Rule, env Environment, origin Origin, seq *int, out *Stylesheet, log *errs.Log) {
	for _, r := range rules {
		switch r.Kind {
		case cssast.AtRuleKind:
			lowerAtRule(r, env, origin, seq, out, log)
		case cssast.QualifiedRuleKind:
			sels := cssast.ParseSelectorList(r.Prelude, log)
			if len(sels) == 0 {
				continue
			}
			decls := lowerDeclarations(cssast.ParseDeclarationList(r.Block, log))
			out.Rules = append(out.Rules, StyleRule{
				Selectors:    sels,
				Declarations: decls,
				Origin:       origin,
				Sequence:     *seq,
				Location:     r.Location,
			})
			*seq++
		}
	}
}

func lowerAtRule(r cssast.Rule, env Environment, origin Origin, seq *int, out *Stylesheet, log *errs.Log) {
	switch strings.ToLower(r.Name) {
	case "media":
		queries := cssast.ParseMediaQueryList(r.Prelude)
		if !evaluateMediaQueryList(queries, env) {
			tracer().Debugf("dropping @media rule: condition did not match environment")
			return
		}
		if r.Block != nil {
			lowerRuleList(cssast.ParseNestedRuleList(r.Block.Value, log), env, origin, seq, out, log)
		}
	case "supports":
		if !evaluateSupports(r.Prelude, env) {
			return
		}
		if r.Block != nil {
			lowerRuleList(cssast.ParseNestedRuleList(r.Block.Value, log), env, origin, seq, out, log)
		}
	case "font-face", "page", "starting-style":
		// Declaration-bearing at-rules with no selector: represented as a
		// StyleRule with a nil Selectors list so the cascade can special-
		// case them, rather than silently dropped.
		decls := lowerDeclarations(cssast.ParseDeclarationList(r.Block, log))
		out.Rules = append(out.Rules, StyleRule{Declarations: decls, Origin: origin, Sequence: *seq, Location: r.Location})
		*seq++
	default:
		if log != nil {
			log.Add(errs.CodeCSSUnknownAtRule, r.Location, r.Name)
		}
	}
}

func evaluateSupports(prelude []cssast.ComponentValue, env Environment) bool {
	// A minimal "supports a declaration" test: `(prop: value)` is treated
	// as supported when the property name is registered, per the
	// property-definition registry internal/style owns. cssom has no
	// dependency on internal/style, so an Environment-supplied allow-list
	// stands in; an empty allow-list means "assume supported" rather than
	// dropping every @supports block in callers that don't populate one.
	prelude = cssast.StripWhitespace(prelude)
	if len(env.SupportedProps) == 0 {
		return true
	}
	for _, v := range prelude {
		if v.Block != nil && v.Block.Open == csstok.LeftParen {
			inner := cssast.StripWhitespace(v.Block.Value)
			if len(inner) > 0 && inner[0].Token != nil && inner[0].Token.Type == csstok.Ident {
				return env.SupportedProps[strings.ToLower(inner[0].Token.Value)]
			}
		}
	}
	return true
}

func lowerDeclarations(decls []cssast.Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, Declaration{
			Property:  d.Name,
			Value:     LowerValue(d.Value),
			Important: d.Important,
			Location:  d.Location,
		})
	}
	return out
}

// ValueKind tags a CssValue's variant.
type ValueKind int

const (
	KeywordValue ValueKind = iota
	StringValue
	NumberValue
	DimensionValue
	PercentageValue
	ColorValue
	FunctionValue
	ListValue
)

// CssValue is a lowered declaration value (§4.4 "Declaration values are
// lowered into CssValue").
type CssValue struct {
	Kind ValueKind

	Keyword string
	Str     string
	Number  float64
	Unit    string

	FnName string
	Args   []CssValue

	List []CssValue
}

// LowerValue lowers a declaration's raw component-value sequence. A
// single-element list collapses to that element; multi-element lists
// become a List, per §4.4.
func LowerValue(vals []cssast.ComponentValue) CssValue {
	vals = cssast.StripWhitespace(vals)
	items := make([]CssValue, 0, len(vals))
	for _, v := range vals {
		items = append(items, lowerOne(v))
	}
	if len(items) == 1 {
		return items[0]
	}
	return CssValue{Kind: ListValue, List: items}
}

func lowerOne(v cssast.ComponentValue) CssValue {
	switch {
	case v.Function != nil:
		args := make([]CssValue, 0, len(v.Function.Value))
		for _, arg := range cssast.StripWhitespace(v.Function.Value) {
			if arg.Token != nil && arg.Token.Type == csstok.Comma {
				continue
			}
			args = append(args, lowerOne(arg))
		}
		return CssValue{Kind: FunctionValue, FnName: strings.ToLower(v.Function.Name), Args: args}
	case v.Block != nil:
		items := make([]CssValue, 0, len(v.Block.Value))
		for _, c := range cssast.StripWhitespace(v.Block.Value) {
			items = append(items, lowerOne(c))
		}
		return CssValue{Kind: ListValue, List: items}
	case v.Token != nil:
		t := v.Token
		switch t.Type {
		case csstok.Ident:
			return CssValue{Kind: KeywordValue, Keyword: strings.ToLower(t.Value)}
		case csstok.String:
			return CssValue{Kind: StringValue, Str: t.Value}
		case csstok.Hash:
			return CssValue{Kind: ColorValue, Str: "#" + t.Value}
		case csstok.Number:
			return CssValue{Kind: NumberValue, Number: t.NumValue}
		case csstok.Percentage:
			return CssValue{Kind: PercentageValue, Number: t.NumValue}
		case csstok.Dimension:
			return CssValue{Kind: DimensionValue, Number: t.NumValue, Unit: strings.ToLower(t.Unit)}
		default:
			return CssValue{Kind: KeywordValue, Keyword: t.Value}
		}
	}
	return CssValue{}
}

// String renders a CssValue approximately back to CSS text, used by debug
// dumps and tests.
func (v CssValue) String() string {
	switch v.Kind {
	case KeywordValue:
		return v.Keyword
	case StringValue:
		return strconv.Quote(v.Str)
	case NumberValue:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case DimensionValue:
		return strconv.FormatFloat(v.Number, 'g', -1, 64) + v.Unit
	case PercentageValue:
		return strconv.FormatFloat(v.Number, 'g', -1, 64) + "%"
	case ColorValue:
		return v.Str
	case FunctionValue:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = a.String()
		}
		return v.FnName + "(" + strings.Join(parts, ", ") + ")"
	case ListValue:
		parts := make([]string, len(v.List))
		for i, a := range v.List {
			parts[i] = a.String()
		}
		return strings.Join(parts, " ")
	}
	return ""
}
