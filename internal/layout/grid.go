package layout

import (
	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/rendertree"
	"github.com/npillmayer/gosub/internal/style"
)

// layoutGridChildren implements row-major grid auto-placement into a
// fixed track count derived from `grid-template-columns` (§4.6). Explicit
// `grid-column`/`grid-row` placement is not read, and track-sizing
// functions are not applied: every track gets an equal share of the
// container's inline size.
func layoutGridChildren(tree *Tree, parent *Element, rt *rendertree.Node, originX, originY, containerW float64, fm FontManager) float64 {
	cols := gridTrackCount(parent.Style, "grid-template-columns")
	if cols < 1 {
		cols = 1
	}
	colW := containerW / float64(cols)

	var elems []*rendertree.Node
	for _, child := range rt.Children {
		if child.Kind == rendertree.ElementNode && displayOf(child.Style) != None {
			elems = append(elems, child)
		}
	}

	y := originY
	rowH := 0.0
	for i, child := range elems {
		col := i % cols
		if col == 0 && i > 0 {
			y += rowH
			rowH = 0
		}
		elem := layoutSubtreeFixedWidth(tree, parent.ID, child, originX+float64(col)*colW, y, colW, fm)
		if h := elem.Margin.H; h > rowH {
			rowH = h
		}
	}
	return (y - originY) + rowH
}

// gridTrackCount counts explicit tracks in a `grid-template-columns` (or
// -rows) value: a List contributes one track per element, a single
// non-"none" value is one track, and "none"/absent is treated as one
// implicit track.
func gridTrackCount(cs style.ComputedStyle, prop string) int {
	if cs == nil {
		return 1
	}
	v, ok := cs[prop]
	if !ok || (v.Kind == cssom.KeywordValue && v.Keyword == "none") {
		return 1
	}
	if v.Kind == cssom.ListValue {
		return len(v.List)
	}
	return 1
}
