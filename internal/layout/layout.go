package layout

import (
	"github.com/npillmayer/gosub/internal/rendertree"
)

// Layout runs the layouter over a render tree for one viewport size
// (§4.6). It is deterministic: the same render tree and viewport always
// produce the same geometry.
func Layout(rt *rendertree.Node, viewportW, viewportH float64, fm FontManager) *Tree {
	if fm == nil {
		fm = DefaultFontManager
	}
	tree := &Tree{}
	root := layoutSubtree(tree, -1, rt, 0, 0, viewportW, fm)
	tree.Root = root.ID
	return tree
}

func isInlineLevel(d Display) bool { return d == Inline || d == InlineBlock }

// layoutSubtree lays out one element (or the synthetic #document root) at
// the given origin within a container of the given width, returning its
// element with a fully resolved margin box.
func layoutSubtree(tree *Tree, parentID int, rt *rendertree.Node, originX, originY, containerW float64, fm FontManager) *Element {
	cs := rt.Style
	d := displayOf(cs)
	if rt.TagName == "#document" {
		d = Block
	}

	elem := tree.new(rt.DOMID, parentID, cs)
	elem.Display = d

	margin := edgesFrom(cs, "margin", containerW)
	border := borderWidths(cs, containerW)
	padding := edgesFrom(cs, "padding", containerW)

	contentW := containerW - margin.Left - margin.Right - border.Left - border.Right - padding.Left - padding.Right
	if cs != nil {
		if w, ok := resolveLength(cs["width"], containerW); ok {
			contentW = w
		}
	}
	if contentW < 0 {
		contentW = 0
	}

	contentX := originX + margin.Left + border.Left + padding.Left
	contentY := originY + margin.Top + border.Top + padding.Top
	elem.Content = Rect{X: contentX, Y: contentY, W: contentW}

	var contentH float64
	switch d {
	case Flex:
		contentH = layoutFlexChildren(tree, elem, rt, contentX, contentY, contentW, fm)
	case Grid:
		contentH = layoutGridChildren(tree, elem, rt, contentX, contentY, contentW, fm)
	default: // Block, InlineBlock, Inline, Table (best-effort block fallback)
		contentH = layoutChildrenInFlow(tree, elem, rt, contentX, contentY, contentW, fm)
	}
	if cs != nil {
		if h, ok := resolveLength(cs["height"], 0); ok {
			contentH = h
		}
	}
	elem.Content.H = contentH

	elem.Padding = outset(elem.Content, padding)
	elem.Border = outset(elem.Padding, border)
	elem.Margin = outset(elem.Border, margin)
	elem.Radii = cornerRadii(cs, containerW)
	elem.BorderWidths = border
	elem.Position = "static"
	if cs != nil {
		elem.Position = cs["position"].Keyword
		if elem.Position == "" {
			elem.Position = "static"
		}
	}
	return elem
}

func outset(r Rect, e Edges) Rect {
	return Rect{X: r.X - e.Left, Y: r.Y - e.Top, W: r.W + e.Left + e.Right, H: r.H + e.Top + e.Bottom}
}

// layoutChildrenInFlow implements the default block/inline formatting
// context: block-level children stack vertically with margin collapse,
// consecutive inline-level children (including text) are grouped into
// line boxes laid out by the inline formatting context.
func layoutChildrenInFlow(tree *Tree, parent *Element, rt *rendertree.Node, originX, originY, containerW float64, fm FontManager) float64 {
	cursorY := originY
	prevMarginBottom := 0.0
	var inlineRun []*rendertree.Node

	flushInline := func() {
		if len(inlineRun) == 0 {
			return
		}
		h := layoutInlineRun(tree, parent.ID, inlineRun, originX, cursorY, containerW, fm)
		cursorY += h
		prevMarginBottom = 0
		inlineRun = nil
	}

	for _, child := range rt.Children {
		if inlineText(child) || isInlineLevel(displayOf(child.Style)) {
			inlineRun = append(inlineRun, child)
			continue
		}
		flushInline()
		if displayOf(child.Style) == None {
			continue
		}
		margin := edgesFrom(child.Style, "margin", containerW)
		borderBoxTop := cursorY + collapseMargins(prevMarginBottom, margin.Top)
		childElem := layoutSubtree(tree, parent.ID, child, originX-margin.Left, borderBoxTop-margin.Top, containerW, fm)
		cursorY = childElem.Border.Y + childElem.Border.H
		prevMarginBottom = margin.Bottom
	}
	flushInline()
	return cursorY - originY
}

// collapseMargins implements the adjoining-block-margin collapse rule:
// the larger of two positive margins, or the sum of the largest positive
// and smallest negative when signs differ (CSS 2.1 §8.3.1, simplified to
// the common no-clearance case).
func collapseMargins(a, b float64) float64 {
	if a >= 0 && b >= 0 {
		if a > b {
			return a
		}
		return b
	}
	if a < 0 && b < 0 {
		if a < b {
			return a
		}
		return b
	}
	return a + b
}
