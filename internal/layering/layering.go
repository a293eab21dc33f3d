// Package layering implements §4.7: it partitions a layout tree into
// ordered, stacking-context-like layers and serves point hit testing
// through a spatial index of the elements' border boxes.
package layering

import (
	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.layering")
}

// Layer is one stacking-context-like bucket: elements assigned to it are
// stored in traversal (document) order.
type Layer struct {
	Order    int
	Elements []int // layout.Element.ID, in traversal order
}

// Tree is the layering result for one layout pass: an ordered list of
// layers plus a per-element layer-order lookup and a spatial index ready
// for hit testing.
type Tree struct {
	Layers       []Layer
	ElementLayer map[int]int // layout.Element.ID -> layer order
	index        *rtree
}

// Build depth-first traverses lt from its root, opening a new layer with a
// higher order whenever an element introduces a stacking context: an
// explicit (non-auto) z-index, a transform other than `none`, opacity < 1,
// or — in this implementation — an Image-context element (§4.7).
func Build(lt *layout.Tree) *Tree {
	t := &Tree{ElementLayer: make(map[int]int)}
	t.Layers = append(t.Layers, Layer{Order: 0})
	if len(lt.Elements) == 0 {
		t.index = buildRTree(nil)
		return t
	}
	var entries []entry
	var walk func(id, layerIdx int)
	walk = func(id, layerIdx int) {
		el := lt.Get(id)
		if introducesStackingContext(el) {
			layerIdx = len(t.Layers)
			t.Layers = append(t.Layers, Layer{Order: layerIdx})
		}
		t.Layers[layerIdx].Elements = append(t.Layers[layerIdx].Elements, id)
		t.ElementLayer[id] = t.Layers[layerIdx].Order
		entries = append(entries, entry{elementID: id, rect: el.Border, radii: el.Radii, zIndex: explicitZIndex(el)})
		for _, c := range el.Children {
			walk(c, layerIdx)
		}
	}
	walk(lt.Root, 0)
	t.index = buildRTree(entries)
	return t
}

func introducesStackingContext(el *layout.Element) bool {
	if el.Context == layout.ImageContext {
		return true
	}
	if el.Style == nil {
		return false
	}
	if _, hasZ := explicitZIndexOK(el.Style); hasZ {
		return true
	}
	if v, ok := el.Style["opacity"]; ok && v.Kind == cssom.NumberValue && v.Number < 1 {
		return true
	}
	if v, ok := el.Style["transform"]; ok && !(v.Kind == cssom.KeywordValue && v.Keyword == "none") {
		return true
	}
	return false
}

func explicitZIndexOK(cs map[string]cssom.CssValue) (float64, bool) {
	v, ok := cs["z-index"]
	if !ok || v.Kind != cssom.NumberValue {
		return 0, false
	}
	return v.Number, true
}

func explicitZIndex(el *layout.Element) float64 {
	if el.Style == nil {
		return 0
	}
	z, _ := explicitZIndexOK(el.Style)
	return z
}

// HitTest returns the layout element at point (x, y): the element whose
// layer order is greatest among those whose (rounded-corner-aware)
// border box contains the point, breaking ties by explicit z-index and
// then by later traversal order. ok is false when nothing contains the
// point (§4.7 layering invariants).
func (t *Tree) HitTest(x, y float64) (elementID int, ok bool) {
	candidates := t.index.query(x, y)
	bestLayer, bestZ := -1, 0.0
	for _, c := range candidates {
		if !containsRounded(c.rect, c.radii, x, y) {
			continue
		}
		layerOrder := t.ElementLayer[c.elementID]
		if !ok || layerOrder > bestLayer ||
			(layerOrder == bestLayer && c.zIndex > bestZ) ||
			(layerOrder == bestLayer && c.zIndex == bestZ && c.elementID >= elementID) {
			bestLayer = layerOrder
			bestZ = c.zIndex
			elementID = c.elementID
			ok = true
		}
	}
	if !ok {
		tracer().Debugf("layering: hit test at (%.1f,%.1f) matched no element", x, y)
	}
	return
}

// containsRounded tests point-in-border-box, carving out the four corner
// regions when the corresponding radius is non-zero (point-in-rounded-rect,
// §4.7).
func containsRounded(r layout.Rect, radii layout.Edges, x, y float64) bool {
	if x < r.X || x > r.X+r.W || y < r.Y || y > r.Y+r.H {
		return false
	}
	if radii.Top > 0 && inCornerCutout(x, y, r.X, r.Y, radii.Top, 1, 1) {
		return false
	}
	if radii.Right > 0 && inCornerCutout(x, y, r.X+r.W, r.Y, radii.Right, -1, 1) {
		return false
	}
	if radii.Bottom > 0 && inCornerCutout(x, y, r.X+r.W, r.Y+r.H, radii.Bottom, -1, -1) {
		return false
	}
	if radii.Left > 0 && inCornerCutout(x, y, r.X, r.Y+r.H, radii.Left, 1, -1) {
		return false
	}
	return true
}

// inCornerCutout reports whether (x, y) falls in the square corner of
// radius rad anchored at (cx, cy) but outside the quarter-circle of that
// radius, i.e. in the part of the bounding box a rounded corner clips
// away. sx/sy point from the corner into the box (+1 or -1 per axis).
func inCornerCutout(x, y, cx, cy, rad, sx, sy float64) bool {
	// the circle center sits `rad` units into the box from the corner.
	ccx, ccy := cx+sx*rad, cy+sy*rad
	// only the quadrant between the corner and the circle center can be cut.
	if sx > 0 && x > ccx {
		return false
	}
	if sx < 0 && x < ccx {
		return false
	}
	if sy > 0 && y > ccy {
		return false
	}
	if sy < 0 && y < ccy {
		return false
	}
	dx, dy := x-ccx, y-ccy
	return dx*dx+dy*dy > rad*rad
}
