package layout

import "github.com/npillmayer/gosub/internal/rendertree"

// layoutFlexChildren implements a single-line row-axis flex formatting
// context (§4.6): flex-basis sizes items, remaining space is distributed
// by flex-grow when the line has slack or by flex-shrink when it
// overflows, justify-content positions the line, and align-items aligns
// each item within the line's cross-axis extent.
func layoutFlexChildren(tree *Tree, parent *Element, rt *rendertree.Node, originX, originY, containerW float64, fm FontManager) float64 {
	type item struct {
		node             *rendertree.Node
		basis, grow, shr float64
	}
	var items []item
	for _, child := range rt.Children {
		if child.Kind != rendertree.ElementNode || displayOf(child.Style) == None {
			continue
		}
		basis, ok := resolveLength(child.Style["flex-basis"], containerW)
		if !ok {
			basis = containerW / float64(max1(len(rt.Children)))
		}
		grow := child.Style["flex-grow"].Number
		shr := child.Style["flex-shrink"].Number
		items = append(items, item{child, basis, grow, shr})
	}
	if len(items) == 0 {
		return 0
	}

	totalBasis, totalGrow, totalShrinkBasis := 0.0, 0.0, 0.0
	for _, it := range items {
		totalBasis += it.basis
		totalGrow += it.grow
		totalShrinkBasis += it.shr * it.basis
	}
	remaining := containerW - totalBasis

	justify := "flex-start"
	align := "stretch"
	if parent.Style != nil {
		justify = parent.Style["justify-content"].Keyword
		if a := parent.Style["align-items"].Keyword; a != "" {
			align = a
		}
	}
	x := originX
	if remaining > 0 {
		switch justify {
		case "center":
			x += remaining / 2
		case "flex-end":
			x += remaining
		}
	}

	var laid []*Element
	maxH := 0.0
	for _, it := range items {
		w := it.basis
		switch {
		case remaining > 0 && totalGrow > 0:
			w += remaining * (it.grow / totalGrow)
		case remaining < 0 && totalShrinkBasis > 0:
			w -= (-remaining) * (it.shr * it.basis) / totalShrinkBasis
		}
		if w < 0 {
			w = 0
		}
		elem := layoutSubtreeFixedWidth(tree, parent.ID, it.node, x, originY, w, fm)
		laid = append(laid, elem)
		x += elem.Margin.W
		if h := elem.Margin.H; h > maxH {
			maxH = h
		}
	}

	for _, elem := range laid {
		h := elem.Margin.H
		var dy float64
		switch align {
		case "center":
			dy = (maxH - h) / 2
		case "flex-end":
			dy = maxH - h
		case "stretch":
			grow := maxH - h
			elem.Content.H += grow
			elem.Padding.H += grow
			elem.Border.H += grow
			elem.Margin.H += grow
		}
		if dy == 0 {
			continue
		}
		elem.Content.Y += dy
		elem.Padding.Y += dy
		elem.Border.Y += dy
		elem.Margin.Y += dy
	}
	return maxH
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// layoutSubtreeFixedWidth lays out a flex/grid item at a caller-computed
// width rather than one derived from its own `width` property, which the
// default box-model resolution in layoutSubtree would otherwise prefer.
func layoutSubtreeFixedWidth(tree *Tree, parentID int, rt *rendertree.Node, originX, originY, width float64, fm FontManager) *Element {
	if rt.Style != nil {
		if _, has := rt.Style["width"]; has {
			saved := rt.Style["width"]
			delete(rt.Style, "width")
			defer func() { rt.Style["width"] = saved }()
		}
	}
	return layoutSubtree(tree, parentID, rt, originX, originY, width, fm)
}
