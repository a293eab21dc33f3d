package style

import (
	"strings"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
)

// resolveFunctional walks a CssValue resolving var()/attr()/calc() calls
// (§4.5). customProps supplies the custom-property environment visible at
// this node (its own declarations plus whatever it inherited).
func resolveFunctional(v cssom.CssValue, n *dom.Node, customProps map[string]cssom.CssValue, log *errs.Log, loc errs.Location) cssom.CssValue {
	switch v.Kind {
	case cssom.ListValue:
		out := make([]cssom.CssValue, len(v.List))
		for i, item := range v.List {
			out[i] = resolveFunctional(item, n, customProps, log, loc)
		}
		return cssom.CssValue{Kind: cssom.ListValue, List: out}
	case cssom.FunctionValue:
		switch v.FnName {
		case "var":
			return resolveVar(v, customProps, log, loc)
		case "attr":
			return resolveAttr(v, n, log, loc)
		case "calc":
			return resolveCalc(v)
		}
	}
	return v
}

func resolveVar(v cssom.CssValue, customProps map[string]cssom.CssValue, log *errs.Log, loc errs.Location) cssom.CssValue {
	if len(v.Args) == 0 {
		return cssom.CssValue{}
	}
	name := v.Args[0].Keyword
	if val, ok := customProps[name]; ok {
		return val
	}
	if len(v.Args) > 1 {
		return v.Args[1]
	}
	if log != nil {
		log.Add(errs.CodeStyleUnresolvedVar, loc, name)
	}
	return cssom.CssValue{}
}

func resolveAttr(v cssom.CssValue, n *dom.Node, log *errs.Log, loc errs.Location) cssom.CssValue {
	if len(v.Args) == 0 {
		return cssom.CssValue{}
	}
	name := v.Args[0].Keyword
	if n.Attrs != nil {
		if val, ok := n.Attrs.Get(name); ok {
			return cssom.CssValue{Kind: cssom.StringValue, Str: val}
		}
	}
	if len(v.Args) > 1 {
		return v.Args[1]
	}
	return cssom.CssValue{}
}

// resolveCalc evaluates a `calc()` argument tree restricted to +/- of
// same-unit dimensions and */÷ by a bare number, per §4.5's "unit algebra"
// requirement; mixed or unsupported operand shapes are left unevaluated.
func resolveCalc(v cssom.CssValue) cssom.CssValue {
	if len(v.Args) == 0 {
		return v
	}
	acc := v.Args[0]
	for i := 1; i+1 < len(v.Args); i += 2 {
		op, ok := opName(v.Args[i])
		if !ok {
			return v
		}
		rhs := v.Args[i+1]
		next, ok := applyCalcOp(acc, op, rhs)
		if !ok {
			return v
		}
		acc = next
	}
	return acc
}

func opName(v cssom.CssValue) (string, bool) {
	if v.Kind == cssom.KeywordValue {
		return v.Keyword, true
	}
	return "", false
}

func applyCalcOp(a cssom.CssValue, op string, b cssom.CssValue) (cssom.CssValue, bool) {
	switch op {
	case "+", "-":
		if a.Kind != cssom.DimensionValue || b.Kind != cssom.DimensionValue || !strings.EqualFold(a.Unit, b.Unit) {
			return a, false
		}
		n := a.Number + b.Number
		if op == "-" {
			n = a.Number - b.Number
		}
		return cssom.CssValue{Kind: cssom.DimensionValue, Number: n, Unit: a.Unit}, true
	case "*":
		if a.Kind == cssom.DimensionValue && b.Kind == cssom.NumberValue {
			return cssom.CssValue{Kind: cssom.DimensionValue, Number: a.Number * b.Number, Unit: a.Unit}, true
		}
		return a, false
	case "/":
		if a.Kind == cssom.DimensionValue && b.Kind == cssom.NumberValue && b.Number != 0 {
			return cssom.CssValue{Kind: cssom.DimensionValue, Number: a.Number / b.Number, Unit: a.Unit}, true
		}
		return a, false
	}
	return a, false
}
