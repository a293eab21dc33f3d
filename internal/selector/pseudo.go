package selector

import (
	"strings"

	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/dom"
)

// pseudoClassFn is one entry of the fixed pseudo-class dispatch table
// (§4.5). Functional pseudo-classes read their raw argument tokens from
// s.PseudoArgs (nil for simple ones).
type pseudoClassFn func(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool

var pseudoClasses = map[string]pseudoClassFn{
	"root":           pseudoRoot,
	"empty":          pseudoEmpty,
	"first-child":    pseudoFirstChild,
	"last-child":     pseudoLastChild,
	"only-child":     pseudoOnlyChild,
	"first-of-type":  pseudoFirstOfType,
	"last-of-type":   pseudoLastOfType,
	"only-of-type":   pseudoOnlyOfType,
	"nth-child":      pseudoNthChild,
	"nth-last-child": pseudoNthLastChild,
	"nth-of-type":    pseudoNthOfType,
	"hover":          pseudoHover,
	"not":            pseudoNot,
}

func matchPseudoClass(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	fn, ok := pseudoClasses[s.Name]
	if !ok {
		tracer().Infof("unsupported pseudo-class :%s treated as non-matching", s.Name)
		return false
	}
	return fn(ctx, node, n, s)
}

func pseudoRoot(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	if !n.HasParent {
		return false
	}
	parent := ctx.Arena.Get(n.Parent)
	return parent != nil && parent.Kind == dom.DocumentKind
}

func pseudoEmpty(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	for _, c := range n.Children {
		cn := ctx.Arena.Get(c)
		if cn.Kind == dom.ElementKind {
			return false
		}
		if cn.Kind == dom.TextKind && cn.Text != "" {
			return false
		}
	}
	return true
}

func pseudoFirstChild(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	_, pos := elementSiblings(ctx.Arena, node)
	return pos == 0
}

func pseudoLastChild(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	sibs, pos := elementSiblings(ctx.Arena, node)
	return pos >= 0 && pos == len(sibs)-1
}

func pseudoOnlyChild(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	sibs, pos := elementSiblings(ctx.Arena, node)
	return pos == 0 && len(sibs) == 1
}

func sameTypeSiblings(a *dom.Arena, id dom.ID) ([]dom.ID, int) {
	n := a.Get(id)
	if n == nil || !n.HasParent {
		return nil, -1
	}
	parent := a.Get(n.Parent)
	var sibs []dom.ID
	pos := -1
	for _, c := range parent.Children {
		cn := a.Get(c)
		if cn.Kind != dom.ElementKind || !strings.EqualFold(cn.TagName, n.TagName) {
			continue
		}
		if c == id {
			pos = len(sibs)
		}
		sibs = append(sibs, c)
	}
	return sibs, pos
}

func pseudoFirstOfType(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	_, pos := sameTypeSiblings(ctx.Arena, node)
	return pos == 0
}

func pseudoLastOfType(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	sibs, pos := sameTypeSiblings(ctx.Arena, node)
	return pos >= 0 && pos == len(sibs)-1
}

func pseudoOnlyOfType(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	sibs, pos := sameTypeSiblings(ctx.Arena, node)
	return pos == 0 && len(sibs) == 1
}

func pseudoNthChild(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	_, pos := elementSiblings(ctx.Arena, node)
	return matchesAnB(s.PseudoArgs, pos)
}

func pseudoNthLastChild(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	sibs, pos := elementSiblings(ctx.Arena, node)
	if pos < 0 {
		return false
	}
	return matchesAnB(s.PseudoArgs, len(sibs)-1-pos)
}

func pseudoNthOfType(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	_, pos := sameTypeSiblings(ctx.Arena, node)
	return matchesAnB(s.PseudoArgs, pos)
}

// matchesAnB reports whether the 0-based position pos satisfies the An+B
// expression carried by a functional pseudo-class's argument tokens
// (CSS position counters are 1-based, per Selectors §5.2).
func matchesAnB(args []csstok.Token, pos int) bool {
	if pos < 0 {
		return false
	}
	a, b, ok := cssast.ParseAnPlusB(args, nil)
	if !ok {
		return false
	}
	p := pos + 1
	if a == 0 {
		return p == b
	}
	k := p - b
	return k%a == 0 && k/a >= 0
}

func pseudoHover(ctx Context, node dom.ID, n *dom.Node, _ cssast.SimpleSelector) bool {
	return ctx.Hovered != 0 && ctx.Hovered == node
}

// pseudoNot implements `:not(<complex-selector-list>)` by re-parsing its
// argument tokens as a selector list and negating a match against any of
// them.
func pseudoNot(ctx Context, node dom.ID, n *dom.Node, s cssast.SimpleSelector) bool {
	comps := make([]cssast.ComponentValue, 0, len(s.PseudoArgs))
	for i := range s.PseudoArgs {
		tok := s.PseudoArgs[i]
		comps = append(comps, cssast.ComponentValue{Token: &tok})
	}
	inner := cssast.ParseSelectorList(comps, nil)
	for _, sel := range inner {
		if Matches(ctx, node, sel) {
			return false
		}
	}
	return true
}
