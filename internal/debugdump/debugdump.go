// Package debugdump renders the pipeline's intermediate trees (DOM,
// render tree, layout tree, layers) as indented text for debugging and
// CLI inspection, in the teacher's treeprint idiom.
package debugdump

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/layering"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/npillmayer/gosub/internal/rendertree"
	tp "github.com/xlab/treeprint"
)

// DOM renders the subtree rooted at root as an indented tree, one line
// per node, attributes sorted and inlined.
func DOM(arena *dom.Arena, root dom.ID) string {
	p := tp.New()
	domNode(p, arena, root)
	return p.String()
}

func domNode(p tp.Tree, arena *dom.Arena, id dom.ID) {
	n := arena.Get(id)
	if n == nil {
		return
	}
	label := domLabel(n)
	if len(n.Children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, c := range n.Children {
		domNode(branch, arena, c)
	}
}

func domLabel(n *dom.Node) string {
	switch n.Kind {
	case dom.DocumentKind:
		return "#document"
	case dom.DocTypeKind:
		return fmt.Sprintf("<!DOCTYPE %s>", n.DoctypeName)
	case dom.TextKind:
		return fmt.Sprintf("%q", n.Text)
	case dom.CommentKind:
		return fmt.Sprintf("<!-- %s -->", n.Text)
	case dom.ElementKind:
		return elementLabel(n.TagName, n.Attrs)
	default:
		return "?"
	}
}

func elementLabel(tag string, attrs *dom.AttrMap) string {
	if attrs == nil || attrs.Len() == 0 {
		return "<" + tag + ">"
	}
	keys := attrs.Keys()
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, k := range keys {
		v, _ := attrs.Get(k)
		fmt.Fprintf(&b, " %s=%q", k, v)
	}
	b.WriteString(">")
	return b.String()
}

// RenderTree renders a render-tree projection (§3) as an indented tree.
func RenderTree(root *rendertree.Node) string {
	p := tp.New()
	renderNode(p, root)
	return p.String()
}

func renderNode(p tp.Tree, n *rendertree.Node) {
	if n == nil {
		return
	}
	var label string
	if n.Kind == rendertree.TextNode {
		label = fmt.Sprintf("%q", n.Text)
	} else {
		display := "inline"
		if v, ok := n.Style["display"]; ok && v.Keyword != "" {
			display = v.Keyword
		}
		label = fmt.Sprintf("<%s> display=%s", n.TagName, display)
	}
	if len(n.Children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, c := range n.Children {
		renderNode(branch, c)
	}
}

// LayoutTree renders a layout tree (§3 "Layout Tree") as an indented tree,
// one line per element giving its border-box geometry.
func LayoutTree(lt *layout.Tree) string {
	p := tp.New()
	layoutNode(p, lt, lt.Root)
	return p.String()
}

func layoutNode(p tp.Tree, lt *layout.Tree, id int) {
	el := lt.Get(id)
	label := fmt.Sprintf("#%d border=(%.1f,%.1f %.1fx%.1f)", el.ID, el.Border.X, el.Border.Y, el.Border.W, el.Border.H)
	if len(el.Children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, c := range el.Children {
		layoutNode(branch, lt, c)
	}
}

// Layers renders the layer partitioning (§4.7) as one branch per layer,
// listing its elements in traversal order.
func Layers(lrs *layering.Tree) string {
	p := tp.New()
	for _, layer := range lrs.Layers {
		branch := p.AddBranch(fmt.Sprintf("layer %d", layer.Order))
		for _, id := range layer.Elements {
			branch.AddNode(fmt.Sprintf("#%d", id))
		}
	}
	return p.String()
}
