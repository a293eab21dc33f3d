package paint

import (
	"image/color"
	"testing"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/layering"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/npillmayer/gosub/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestElem(tree *layout.Tree, parent int, rect layout.Rect, cs style.ComputedStyle) int {
	e := &layout.Element{ID: len(tree.Elements), Parent: parent, Border: rect, Content: rect, Padding: rect, Margin: rect, Style: cs}
	tree.Elements = append(tree.Elements, e)
	if parent >= 0 {
		tree.Elements[parent].Children = append(tree.Elements[parent].Children, e.ID)
	}
	return e.ID
}

func TestCoverViewportProducesExpectedGrid(t *testing.T) {
	tiles := CoverViewport(600, 300)
	assert.Len(t, tiles, 3*2) // ceil(600/256)=3, ceil(300/256)=2
}

func TestAssignElementsRespectsLayerOrder(t *testing.T) {
	tree := &layout.Tree{}
	root := newTestElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 500, H: 500}, nil)
	a := newTestElem(tree, root, layout.Rect{X: 10, Y: 10, W: 50, H: 50}, nil)
	tree.Root = root

	lt := layering.Build(tree)
	tiles := AssignElements(tree, lt, 500, 500)
	var tile0 *Tile
	for i := range tiles {
		if tiles[i].ID == (TileID{0, 0}) {
			tile0 = &tiles[i]
		}
	}
	require.NotNil(t, tile0)
	assert.Contains(t, tile0.Elements, root)
	assert.Contains(t, tile0.Elements, a)
}

// TestTileGridCoversViewportDisjointly checks the tile coverage property:
// tile rects are pairwise disjoint and their union covers the viewport.
func TestTileGridCoversViewportDisjointly(t *testing.T) {
	const w, h = 600.0, 300.0
	tiles := CoverViewport(w, h)

	for i := range tiles {
		for j := range tiles {
			if i == j {
				continue
			}
			assert.False(t, intersects(tiles[i].Rect, tiles[j].Rect),
				"tile %v and %v overlap", tiles[i].ID, tiles[j].ID)
		}
	}

	var covered float64
	for _, tl := range tiles {
		covered += tl.Rect.W * tl.Rect.H
	}
	assert.GreaterOrEqual(t, covered, w*h)

	for x := 0.0; x < w; x += 50 {
		for y := 0.0; y < h; y += 50 {
			found := false
			for _, tl := range tiles {
				if x >= tl.Rect.X && x < tl.Rect.X+tl.Rect.W && y >= tl.Rect.Y && y < tl.Rect.Y+tl.Rect.H {
					found = true
					break
				}
			}
			assert.True(t, found, "point (%v,%v) not covered by any tile", x, y)
		}
	}
}

// TestAssignElementsCoversIntersectingElement checks that every element
// with a non-empty border-box intersection with the viewport appears in at
// least one tile.
func TestAssignElementsCoversIntersectingElement(t *testing.T) {
	tree := &layout.Tree{}
	root := newTestElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 500, H: 500}, nil)
	spanning := newTestElem(tree, root, layout.Rect{X: 200, Y: 200, W: 400, H: 400}, nil)
	tree.Root = root

	lt := layering.Build(tree)
	tiles := AssignElements(tree, lt, 500, 500)

	for _, id := range []int{root, spanning} {
		present := false
		for _, tl := range tiles {
			for _, e := range tl.Elements {
				if e == id {
					present = true
				}
			}
		}
		assert.True(t, present, "element %d missing from every tile", id)
	}
}

func TestRectangleCommandResolvesBackgroundAndBorder(t *testing.T) {
	tree := &layout.Tree{}
	cs := style.ComputedStyle{
		"background-color": {Kind: cssom.ColorValue, Str: "#ff0000"},
		"border-style":      {Kind: cssom.KeywordValue, Keyword: "solid"},
		"border-color":      {Kind: cssom.ColorValue, Str: "#00ff00"},
	}
	id := newTestElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 100, H: 50}, cs)
	tree.Elements[id].BorderWidths = layout.Edges{Top: 2, Right: 2, Bottom: 2, Left: 2}
	tree.Root = id

	cmds := Generate(tree, -1, false)
	require.Len(t, cmds, 1)
	assert.Equal(t, Rectangle, cmds[0].Kind)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, cmds[0].Background)
	assert.Equal(t, "solid", cmds[0].Borders[0].Style)
}

func TestWireframeAddsOneCommandPerElement(t *testing.T) {
	tree := &layout.Tree{}
	id := newTestElem(tree, -1, layout.Rect{X: 0, Y: 0, W: 10, H: 10}, nil)
	tree.Root = id
	withoutWire := Generate(tree, -1, false)
	withWire := Generate(tree, -1, true)
	assert.Equal(t, len(withoutWire)+1, len(withWire))
}

func TestRasterizeTileProducesOpaquePixelUnderBackground(t *testing.T) {
	tree := &layout.Tree{}
	cs := style.ComputedStyle{"background-color": {Kind: cssom.ColorValue, Str: "#0000ff"}}
	id := newTestElem(tree, -1, layout.Rect{X: 10, Y: 10, W: 50, H: 50}, cs)
	tree.Root = id
	cmds := Generate(tree, -1, false)

	tile := Tile{ID: TileID{0, 0}, Rect: layout.Rect{X: 0, Y: 0, W: TileSize, H: TileSize}, Elements: []int{id}}
	r := NewRasterizer()
	img := r.RasterizeTile(tile, cmds)
	require.NotNil(t, img)
	c := img.RGBAAt(30, 30)
	assert.True(t, c.B > c.R && c.A > 0, "expected blue fill at (30,30), got %+v", c)
}

func TestTextureStoreCachesByContentHash(t *testing.T) {
	store := NewTextureStore()
	tile := Tile{ID: TileID{0, 0}, Rect: layout.Rect{X: 0, Y: 0, W: TileSize, H: TileSize}}
	cmds := []Command{{Kind: Rectangle, Rect: layout.Rect{X: 0, Y: 0, W: 10, H: 10}}}
	r := NewRasterizer()

	tex1 := RasterizeCached(r, store, tile, cmds)
	tex2 := RasterizeCached(r, store, tile, cmds)
	assert.Same(t, tex1, tex2)

	cmds2 := []Command{{Kind: Rectangle, Rect: layout.Rect{X: 0, Y: 0, W: 20, H: 20}}}
	tex3 := RasterizeCached(r, store, tile, cmds2)
	assert.NotSame(t, tex1, tex3)
}
