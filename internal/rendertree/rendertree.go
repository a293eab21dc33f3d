// Package rendertree projects the DOM into the filtered subset described
// by §3 "Render Tree": a node is excluded when its tag is in
// {head, script, style, svg, noscript, title}, its computed display is
// none, or it is a whitespace-only text node.
package rendertree

import (
	"strings"

	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/style"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.rendertree")
}

var excludedTags = map[string]bool{
	"head": true, "script": true, "style": true, "svg": true, "noscript": true, "title": true,
}

// Kind tags a render-tree Node's variant.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
)

// Node is one retained render-tree entry, projecting a single DOM node.
type Node struct {
	DOMID    dom.ID
	Kind     Kind
	TagName  string
	Text     string
	Style    style.ComputedStyle // nil for TextNode; inherits its element parent's style during layout
	Children []*Node
}

func isWhitespaceOnly(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

func isDisplayNone(computed style.ComputedStyle) bool {
	if computed == nil {
		return false
	}
	v, ok := computed["display"]
	return ok && v.Keyword == "none"
}

// Build walks the subtree rooted at root and returns its render-tree
// projection, or nil if root itself is excluded. computed supplies the
// per-node style map produced by style.ResolveTree.
func Build(arena *dom.Arena, root dom.ID, computed map[dom.ID]style.ComputedStyle) *Node {
	n := arena.Get(root)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case dom.DocumentKind:
		rt := &Node{DOMID: root, Kind: ElementNode, TagName: "#document"}
		for _, c := range n.Children {
			if child := Build(arena, c, computed); child != nil {
				rt.Children = append(rt.Children, child)
			}
		}
		return rt
	case dom.ElementKind:
		tag := strings.ToLower(n.TagName)
		if excludedTags[tag] {
			return nil
		}
		cs := computed[root]
		if isDisplayNone(cs) {
			return nil
		}
		rt := &Node{DOMID: root, Kind: ElementNode, TagName: tag, Style: cs}
		for _, c := range n.Children {
			if child := Build(arena, c, computed); child != nil {
				rt.Children = append(rt.Children, child)
			}
		}
		return rt
	case dom.TextKind:
		if isWhitespaceOnly(n.Text) {
			return nil
		}
		return &Node{DOMID: root, Kind: TextNode, Text: n.Text}
	default:
		tracer().Debugf("rendertree: dropping dom node %d of unprojectable kind %d", root, n.Kind)
		return nil
	}
}
