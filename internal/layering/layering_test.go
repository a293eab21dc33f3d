package layering

import (
	"testing"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLayoutTree assembles a tiny layout.Tree directly (bypassing the
// layout stage) so layering can be exercised in isolation: a root
// containing two non-overlapping siblings and one overlapping,
// explicitly-z-indexed sibling.
func buildLayoutTree() *layout.Tree {
	tree := &layout.Tree{}
	root := tree.Get(newElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 300, H: 300}, nil))
	a := newElem(tree, root.ID, layout.Rect{X: 0, Y: 0, W: 100, H: 100}, nil)
	b := newElem(tree, root.ID, layout.Rect{X: 50, Y: 50, W: 100, H: 100}, map[string]cssom.CssValue{
		"z-index": {Kind: cssom.NumberValue, Number: 5},
	})
	tree.Root = root.ID
	_ = a
	_ = b
	return tree
}

func newElem(tree *layout.Tree, parent int, rect layout.Rect, style map[string]cssom.CssValue) int {
	e := &layout.Element{ID: len(tree.Elements), Parent: parent, Border: rect, Style: style}
	tree.Elements = append(tree.Elements, e)
	if parent >= 0 {
		tree.Elements[parent].Children = append(tree.Elements[parent].Children, e.ID)
	}
	return e.ID
}

func TestExplicitZIndexOpensNewLayer(t *testing.T) {
	tree := buildLayoutTree()
	lt := Build(tree)
	require.True(t, len(lt.Layers) >= 2)
	assert.Equal(t, 0, lt.ElementLayer[tree.Root])
	assert.Equal(t, 0, lt.ElementLayer[tree.Elements[1].ID])
	assert.NotEqual(t, 0, lt.ElementLayer[tree.Elements[2].ID])
}

func TestHitTestPicksHigherLayerInOverlap(t *testing.T) {
	tree := buildLayoutTree()
	lt := Build(tree)
	// (75,75) is inside both sibling a (0,0,100,100) and sibling b
	// (50,50,100,100); b opened a new (higher) layer so it must win.
	id, ok := lt.HitTest(75, 75)
	require.True(t, ok)
	assert.Equal(t, tree.Elements[2].ID, id)
}

func TestHitTestMissReturnsNotOK(t *testing.T) {
	tree := buildLayoutTree()
	lt := Build(tree)
	_, ok := lt.HitTest(290, 10)
	assert.True(t, ok) // still inside the 300x300 root
	_, ok = lt.HitTest(-5, -5)
	assert.False(t, ok)
}

// TestLayerAssignmentIsATotalOrder checks the layering invariants: every
// layout element belongs to exactly one layer, and layer ordering is a
// total order (strictly increasing, pairwise distinct Order values).
func TestLayerAssignmentIsATotalOrder(t *testing.T) {
	tree := buildLayoutTree()
	lt := Build(tree)

	for _, el := range tree.Elements {
		_, ok := lt.ElementLayer[el.ID]
		assert.True(t, ok, "element %d has no layer assignment", el.ID)
	}

	seen := make(map[int]bool)
	for i, layer := range lt.Layers {
		assert.False(t, seen[layer.Order], "duplicate layer order %d", layer.Order)
		seen[layer.Order] = true
		if i > 0 {
			assert.Greater(t, layer.Order, lt.Layers[i-1].Order)
		}
	}
}

func TestRoundedCornerExcludesCutoutRegion(t *testing.T) {
	tree := &layout.Tree{}
	root := newElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 100, H: 100}, nil)
	tree.Elements[root].Radii = layout.Edges{Top: 20, Right: 20, Bottom: 20, Left: 20}
	tree.Root = root
	lt := Build(tree)
	// (1,1) is deep in the top-left corner cutout, well outside the
	// quarter-circle of radius 20 centered at (20,20).
	_, ok := lt.HitTest(1, 1)
	assert.False(t, ok)
	// the box center is always inside, corner cutouts notwithstanding.
	id, ok := lt.HitTest(50, 50)
	assert.True(t, ok)
	assert.Equal(t, root, id)
}
