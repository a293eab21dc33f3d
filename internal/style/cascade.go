package style

import (
	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/selector"
)

// DeclaredProperty is one winning cascade entry for a single property on a
// single node (§4.5).
type DeclaredProperty struct {
	Value       cssom.CssValue
	Origin      cssom.Origin
	Specificity selector.Specificity
	Sequence    int
	Important   bool
	Location    errs.Location
}

func originWeight(o cssom.Origin) int { return int(o) }

// winsOver implements the cascade order of §8 "Cascade order": greater
// (origin-weight, !important, specificity, document-order) wins.
func (d DeclaredProperty) winsOver(o DeclaredProperty) bool {
	if d.Origin != o.Origin {
		return d.Origin > o.Origin
	}
	if d.Important != o.Important {
		return d.Important
	}
	if d.Specificity != o.Specificity {
		return !d.Specificity.Less(o.Specificity)
	}
	return d.Sequence >= o.Sequence
}

// Cascade runs §4.5's "for each selector in each rule, match, then record
// the winning declaration per property" pass for one node.
func Cascade(ctx selector.Context, node dom.ID, sheets []*cssom.Stylesheet, log *errs.Log) map[string]DeclaredProperty {
	winners := make(map[string]DeclaredProperty)
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if len(rule.Selectors) == 0 {
				continue
			}
			var best selector.Specificity
			matched := false
			for _, sel := range rule.Selectors {
				if !selector.Matches(ctx, node, sel) {
					continue
				}
				sp := selector.ComputeSpecificity(sel)
				if !matched || !sp.Less(best) {
					best = sp
					matched = true
				}
			}
			if !matched {
				continue
			}
			for _, decl := range rule.Declarations {
				recordDeclaration(winners, decl, rule.Origin, best, rule.Sequence, log)
			}
		}
	}
	return winners
}

func recordDeclaration(winners map[string]DeclaredProperty, decl cssom.Declaration, origin cssom.Origin, sp selector.Specificity, seq int, log *errs.Log) {
	def, ok := lookup(decl.Property)
	if !ok {
		if log != nil {
			log.Add(errs.CodeStyleUnknownProperty, decl.Location, decl.Property)
		}
		return
	}
	candidate := DeclaredProperty{Value: decl.Value, Origin: origin, Specificity: sp, Sequence: seq, Important: decl.Important, Location: decl.Location}
	if def.Shorthand {
		for _, longhand := range def.Longhands {
			expandShorthand(winners, def, longhand, decl.Value, candidate, log)
		}
		return
	}
	if cur, exists := winners[decl.Property]; exists && !candidate.winsOver(cur) {
		return
	}
	winners[decl.Property] = candidate
}

// expandShorthand applies the 1-to-4-value box-shorthand expansion used by
// margin/padding/border-width (§4.5 "fix-list" expansion of shorthand
// components). Properties whose shorthand isn't a 4-sided box value
// (e.g. `border`, `overflow`) are assigned positionally: the i-th value goes
// to the i-th longhand, and longhands beyond the value list get the first
// value.
func expandShorthand(winners map[string]DeclaredProperty, def PropertyDef, longhand string, value cssom.CssValue, candidate DeclaredProperty, log *errs.Log) {
	items := flattenList(value)
	var v cssom.CssValue
	switch len(def.Longhands) {
	case 4:
		switch len(items) {
		case 1:
			v = pick(items, 0, 0, 0, 0, longhand, def)
		case 2:
			v = pick(items, 0, 1, 0, 1, longhand, def)
		case 3:
			v = pick(items, 0, 1, 2, 1, longhand, def)
		default:
			v = pick(items, 0, 1, 2, 3, longhand, def)
		}
	default:
		if len(items) > 0 {
			idx := indexOf(def.Longhands, longhand)
			if idx < len(items) {
				v = items[idx]
			} else {
				v = items[0]
			}
		}
	}
	c := candidate
	c.Value = v
	if cur, exists := winners[longhand]; exists && !c.winsOver(cur) {
		return
	}
	winners[longhand] = c
}

func pick(items []cssom.CssValue, top, right, bottom, left int, longhand string, def PropertyDef) cssom.CssValue {
	idx := map[string]int{def.Longhands[0]: top, def.Longhands[1]: right, def.Longhands[2]: bottom, def.Longhands[3]: left}[longhand]
	if idx >= len(items) {
		return cssom.CssValue{}
	}
	return items[idx]
}

func indexOf(xs []string, x string) int {
	for i, s := range xs {
		if s == x {
			return i
		}
	}
	return -1
}

func flattenList(v cssom.CssValue) []cssom.CssValue {
	if v.Kind == cssom.ListValue {
		return v.List
	}
	return []cssom.CssValue{v}
}
