package layering

import (
	"math"
	"sort"

	"github.com/npillmayer/gosub/internal/layout"
)

// maxEntries bounds how many children/leaf entries a spatial index node
// holds before it is split into a parent level (§4.7 spatial index).
const maxEntries = 8

// entry is one indexed layout element: its border box, per-corner radii
// (for the rounded-rect hit test) and explicit z-index (tie-break).
type entry struct {
	elementID int
	rect      layout.Rect
	radii     layout.Edges
	zIndex    float64
}

// rnode is one node of the bulk-loaded spatial index: an interior node
// holds children, a leaf holds entries directly.
type rnode struct {
	rect     layout.Rect
	children []*rnode
	leaf     []entry
}

type rtree struct {
	root *rnode
}

// buildRTree bulk-loads a static R-tree over entries using the
// sort-tile-recursive (STR) packing algorithm: no dynamic insertion or
// splitting is needed since the whole layout tree is rebuilt on every
// layout pass.
func buildRTree(entries []entry) *rtree {
	if len(entries) == 0 {
		return &rtree{root: &rnode{}}
	}
	level := strPack(entries)
	for len(level) > 1 {
		level = packNodes(level)
	}
	return &rtree{root: level[0]}
}

func centerX(r layout.Rect) float64 { return r.X + r.W/2 }
func centerY(r layout.Rect) float64 { return r.Y + r.H/2 }

// strPack groups entries into leaf nodes: entries are sorted into
// vertical slabs by x-center, each slab is sorted by y-center, then
// chunked into leaves of at most maxEntries.
func strPack(entries []entry) []*rnode {
	sorted := make([]entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return centerX(sorted[i].rect) < centerX(sorted[j].rect) })

	numLeaves := int(math.Ceil(float64(len(sorted)) / float64(maxEntries)))
	numSlabs := int(math.Ceil(math.Sqrt(float64(numLeaves))))
	if numSlabs < 1 {
		numSlabs = 1
	}
	slabSize := int(math.Ceil(float64(len(sorted)) / float64(numSlabs)))
	if slabSize < 1 {
		slabSize = len(sorted)
	}

	var leaves []*rnode
	for i := 0; i < len(sorted); i += slabSize {
		end := i + slabSize
		if end > len(sorted) {
			end = len(sorted)
		}
		slab := sorted[i:end]
		sort.Slice(slab, func(a, b int) bool { return centerY(slab[a].rect) < centerY(slab[b].rect) })
		for j := 0; j < len(slab); j += maxEntries {
			k := j + maxEntries
			if k > len(slab) {
				k = len(slab)
			}
			chunk := append([]entry(nil), slab[j:k]...)
			leaves = append(leaves, &rnode{leaf: chunk, rect: unionEntryRects(chunk)})
		}
	}
	return leaves
}

// packNodes groups a level of nodes into parents of at most maxEntries
// children, the recursive step of STR bulk loading above the leaf level.
func packNodes(nodes []*rnode) []*rnode {
	sorted := make([]*rnode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return centerX(sorted[i].rect) < centerX(sorted[j].rect) })

	var parents []*rnode
	for i := 0; i < len(sorted); i += maxEntries {
		end := i + maxEntries
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[i:end]
		parents = append(parents, &rnode{children: chunk, rect: unionNodeRects(chunk)})
	}
	return parents
}

func unionEntryRects(es []entry) layout.Rect {
	if len(es) == 0 {
		return layout.Rect{}
	}
	u := es[0].rect
	for _, e := range es[1:] {
		u = unionRect(u, e.rect)
	}
	return u
}

func unionNodeRects(ns []*rnode) layout.Rect {
	if len(ns) == 0 {
		return layout.Rect{}
	}
	u := ns[0].rect
	for _, n := range ns[1:] {
		u = unionRect(u, n.rect)
	}
	return u
}

func unionRect(a, b layout.Rect) layout.Rect {
	x0, y0 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x1, y1 := math.Max(a.X+a.W, b.X+b.W), math.Max(a.Y+a.H, b.Y+b.H)
	return layout.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func containsPoint(r layout.Rect, x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// query returns every indexed entry whose border box contains (x, y),
// descending only into subtrees whose bounding rect contains the point.
func (t *rtree) query(x, y float64) []entry {
	var out []entry
	var walk func(n *rnode)
	walk = func(n *rnode) {
		if n == nil || !containsPoint(n.rect, x, y) {
			return
		}
		for _, e := range n.leaf {
			if containsPoint(e.rect, x, y) {
				out = append(out, e)
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}
