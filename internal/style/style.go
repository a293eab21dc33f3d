package style

import (
	"strings"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/selector"
)

// notRenderableTags receive no computed style: ResolveTree skips their
// whole subtree.
var notRenderableTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"title": true, "meta": true, "link": true, "base": true, "noscript": true,
}

func isUnrenderable(n *dom.Node) bool {
	if n.Kind != dom.ElementKind {
		return n.Kind != dom.DocumentKind
	}
	return notRenderableTags[strings.ToLower(n.TagName)]
}

// ComputedStyle is a node's fully resolved property map: every registered
// longhand maps to its actual value.
type ComputedStyle map[string]cssom.CssValue

// PropertiesFromNode resolves one node's style without regard to its
// ancestors' computed values — callers walking the tree should prefer
// ResolveTree, which threads inheritance through the whole subtree.
func PropertiesFromNode(ctx selector.Context, node dom.ID, sheets []*cssom.Stylesheet, parent ComputedStyle, log *errs.Log) ComputedStyle {
	n := ctx.Arena.Get(node)
	if n == nil || isUnrenderable(n) {
		return nil
	}
	declared := Cascade(ctx, node, sheets, log)
	return computeActualValues(n, declared, parent, log)
}

// ResolveTree resolves computed styles for every renderable node in the
// subtree rooted at root, propagating inheritance depth-first (§4.5).
func ResolveTree(ctx selector.Context, root dom.ID, sheets []*cssom.Stylesheet, log *errs.Log) map[dom.ID]ComputedStyle {
	out := make(map[dom.ID]ComputedStyle)
	var walk func(node dom.ID, parent ComputedStyle)
	walk = func(node dom.ID, parent ComputedStyle) {
		n := ctx.Arena.Get(node)
		if n == nil {
			return
		}
		if n.Kind == dom.DocumentKind {
			for _, c := range n.Children {
				walk(c, parent)
			}
			return
		}
		if isUnrenderable(n) {
			return
		}
		computed := PropertiesFromNode(ctx, node, sheets, parent, log)
		out[node] = computed
		for _, c := range n.Children {
			walk(c, computed)
		}
	}
	walk(root, nil)
	return out
}

// computeActualValues merges this node's cascade winners with inherited
// values from parent, resolves var()/attr()/calc(), and fills every
// registered longhand with its initial value when neither declared nor
// inherited (§4.5 "second pass computes each property's actual value").
func computeActualValues(n *dom.Node, declared map[string]DeclaredProperty, parent ComputedStyle, log *errs.Log) ComputedStyle {
	customProps := make(map[string]cssom.CssValue)
	if parent != nil {
		for k, v := range parent {
			if strings.HasPrefix(k, "--") {
				customProps[k] = v
			}
		}
	}
	for name, d := range declared {
		if strings.HasPrefix(name, "--") {
			customProps[name] = d.Value
		}
	}

	out := make(ComputedStyle, len(Registry))
	for name, def := range Registry {
		if def.Shorthand || name == "--custom" {
			continue
		}
		if d, ok := declared[name]; ok && !isInheritKeyword(d.Value) {
			out[name] = resolveFunctional(d.Value, n, customProps, log, d.Location)
			continue
		}
		if def.Inherited && parent != nil {
			if pv, ok := parent[name]; ok {
				out[name] = pv
				continue
			}
		}
		out[name] = def.Initial
	}
	for name, v := range customProps {
		out[name] = v
	}
	return out
}

func isInheritKeyword(v cssom.CssValue) bool {
	return v.Kind == cssom.KeywordValue && v.Keyword == "inherit"
}
