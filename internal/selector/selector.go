// Package selector implements CSS selector matching and specificity
// computation (§4.5), operating on cssast.ComplexSelector values against
// the arena-addressed DOM of internal/dom.
package selector

import (
	"strings"

	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.selector")
}

// Specificity is the (id-count, class/attr/pseudo-class-count,
// type/pseudo-element-count) triple used to break cascade ties (§4.5).
type Specificity struct {
	A, B, C int
}

// Less reports whether s sorts before o in specificity order (lower wins
// nothing on its own; cascade code compares the other direction).
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

// ComputeSpecificity sums specificity across every compound in a complex
// selector (Selectors §16).
func ComputeSpecificity(cs cssast.ComplexSelector) Specificity {
	var sp Specificity
	for _, compound := range cs.Compounds {
		for _, s := range compound.Simple {
			switch s.Kind {
			case cssast.IDSelector:
				sp.A++
			case cssast.ClassSelector, cssast.AttrSelector, cssast.PseudoClassSelector:
				sp.B++
			case cssast.TypeSelector, cssast.PseudoElementSelector:
				sp.C++
			}
		}
	}
	return sp
}

// Context carries the ambient matching state a handful of pseudo-classes
// need beyond the DOM shape itself.
type Context struct {
	Arena   *dom.Arena
	Hovered dom.ID // 0 (document root, never hoverable) when nothing is hovered
}

// Matches reports whether node satisfies the complex selector cs.
func Matches(ctx Context, node dom.ID, cs cssast.ComplexSelector) bool {
	if len(cs.Compounds) == 0 {
		tracer().Debugf("selector: complex selector with no compounds never matches")
		return false
	}
	last := len(cs.Compounds) - 1
	if !matchCompound(ctx, node, cs.Compounds[last]) {
		return false
	}
	return matchChain(ctx, node, cs, last-1)
}

// matchChain walks leftward from compound index idx, requiring each
// combinator's DOM relationship to hold.
func matchChain(ctx Context, rightNode dom.ID, cs cssast.ComplexSelector, idx int) bool {
	if idx < 0 {
		return true
	}
	comb := cs.Combinators[idx]
	compound := cs.Compounds[idx]
	switch comb {
	case cssast.Child:
		p, ok := parentElement(ctx.Arena, rightNode)
		if !ok {
			return false
		}
		return matchCompound(ctx, p, compound) && matchChain(ctx, p, cs, idx-1)
	case cssast.NextSibling:
		p, ok := previousElementSibling(ctx.Arena, rightNode)
		if !ok {
			return false
		}
		return matchCompound(ctx, p, compound) && matchChain(ctx, p, cs, idx-1)
	case cssast.SubsequentSibling:
		sib, ok := previousElementSibling(ctx.Arena, rightNode)
		for ok {
			if matchCompound(ctx, sib, compound) && matchChain(ctx, sib, cs, idx-1) {
				return true
			}
			sib, ok = previousElementSibling(ctx.Arena, sib)
		}
		return false
	default: // Descendant
		p, ok := parentElement(ctx.Arena, rightNode)
		for ok {
			if matchCompound(ctx, p, compound) && matchChain(ctx, p, cs, idx-1) {
				return true
			}
			p, ok = parentElement(ctx.Arena, p)
		}
		return false
	}
}

func parentElement(a *dom.Arena, id dom.ID) (dom.ID, bool) {
	n := a.Get(id)
	if n == nil || !n.HasParent {
		return 0, false
	}
	p := a.Get(n.Parent)
	if p == nil || p.Kind != dom.ElementKind {
		return 0, false
	}
	return n.Parent, true
}

func elementSiblings(a *dom.Arena, id dom.ID) ([]dom.ID, int) {
	n := a.Get(id)
	if n == nil || !n.HasParent {
		return nil, -1
	}
	parent := a.Get(n.Parent)
	var sibs []dom.ID
	pos := -1
	for _, c := range parent.Children {
		cn := a.Get(c)
		if cn.Kind != dom.ElementKind {
			continue
		}
		if c == id {
			pos = len(sibs)
		}
		sibs = append(sibs, c)
	}
	return sibs, pos
}

func previousElementSibling(a *dom.Arena, id dom.ID) (dom.ID, bool) {
	sibs, pos := elementSiblings(a, id)
	if pos <= 0 {
		return 0, false
	}
	return sibs[pos-1], true
}

func matchCompound(ctx Context, node dom.ID, compound cssast.CompoundSelector) bool {
	n := ctx.Arena.Get(node)
	if n == nil || n.Kind != dom.ElementKind {
		return false
	}
	for _, s := range compound.Simple {
		if !matchSimple(ctx, node, n, s) {
			return false
		}
	}
	return true
}

func matchSimple(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	switch s.Kind {
	case cssast.UniversalSelector:
		return true
	case cssast.TypeSelector:
		return strings.EqualFold(n.TagName, s.Name)
	case cssast.IDSelector:
		v, ok := n.Attrs.Get("id")
		return ok && v == s.Name
	case cssast.ClassSelector:
		for _, c := range classesOf(n) {
			if c == s.Name {
				return true
			}
		}
		return false
	case cssast.AttrSelector:
		return matchAttr(n, s)
	case cssast.PseudoClassSelector:
		return matchPseudoClass(ctx, node, n, s)
	case cssast.PseudoElementSelector:
		// Pseudo-elements are not part of the matching predicate beyond
		// their owning compound's other simple selectors (§4.5).
		return true
	}
	return false
}

func classesOf(n *dom.Node) []string {
	v, ok := n.Attrs.Get("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

func matchAttr(n *dom.Node, s cssast.SimpleSelector) bool {
	v, ok := n.Attrs.Get(strings.ToLower(s.Name))
	if !ok {
		return false
	}
	if s.AttrOp == cssast.AttrExists {
		return true
	}
	have, want := v, s.AttrValue
	if s.AttrCaseFold {
		have, want = strings.ToLower(have), strings.ToLower(want)
	}
	switch s.AttrOp {
	case cssast.AttrEquals:
		return have == want
	case cssast.AttrIncludes:
		for _, f := range strings.Fields(have) {
			if f == want {
				return true
			}
		}
		return false
	case cssast.AttrDashMatch:
		return have == want || strings.HasPrefix(have, want+"-")
	case cssast.AttrPrefix:
		return want != "" && strings.HasPrefix(have, want)
	case cssast.AttrSuffix:
		return want != "" && strings.HasSuffix(have, want)
	case cssast.AttrSubstring:
		return want != "" && strings.Contains(have, want)
	}
	return false
}
