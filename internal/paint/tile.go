// Package paint implements §4.8: the tiler covers the viewport in
// fixed-size tiles, the painter turns one layout element into absolute
// paint commands, and the rasterizer turns one tile's commands into an
// off-screen texture, cached by content hash.
package paint

import (
	"math"

	"github.com/npillmayer/gosub/internal/layering"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.paint")
}

// TileSize is the edge length, in px, of one square tile.
const TileSize = 256

// TileID addresses a tile by its column/row in the viewport grid.
type TileID struct {
	Col, Row int
}

// Tile is one fixed-size viewport region plus the layout elements whose
// border box intersects it, preserving layer order (§4.8 "Tiler").
type Tile struct {
	ID       TileID
	Rect     layout.Rect
	Elements []int
}

// CoverViewport returns the grid of tile rects needed to cover a
// viewportW x viewportH area.
func CoverViewport(viewportW, viewportH float64) []Tile {
	cols := int(math.Ceil(viewportW / TileSize))
	rows := int(math.Ceil(viewportH / TileSize))
	if cols < 1 {
		tracer().Debugf("paint: viewport width %g too small for a tile column, clamping to 1", viewportW)
		cols = 1
	}
	if rows < 1 {
		tracer().Debugf("paint: viewport height %g too small for a tile row, clamping to 1", viewportH)
		rows = 1
	}
	tiles := make([]Tile, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tiles = append(tiles, Tile{
				ID:   TileID{Col: col, Row: row},
				Rect: layout.Rect{X: float64(col) * TileSize, Y: float64(row) * TileSize, W: TileSize, H: TileSize},
			})
		}
	}
	return tiles
}

func intersects(a, b layout.Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// AssignElements covers the viewport and, for every layer in layer order
// and every element in that layer's traversal order, appends the element
// to each tile its border box intersects (§4.8 "For each tile it records
// the list of layout elements ... preserving layer order").
func AssignElements(lt *layout.Tree, layers *layering.Tree, viewportW, viewportH float64) []Tile {
	tiles := CoverViewport(viewportW, viewportH)
	byID := make(map[TileID]int, len(tiles))
	for i, t := range tiles {
		byID[t.ID] = i
	}
	assign := func(elementID int, rect layout.Rect) {
		colStart := int(math.Floor(rect.X / TileSize))
		colEnd := int(math.Floor((rect.X + rect.W) / TileSize))
		rowStart := int(math.Floor(rect.Y / TileSize))
		rowEnd := int(math.Floor((rect.Y + rect.H) / TileSize))
		for row := rowStart; row <= rowEnd; row++ {
			for col := colStart; col <= colEnd; col++ {
				idx, ok := byID[TileID{Col: col, Row: row}]
				if !ok {
					continue
				}
				if intersects(tiles[idx].Rect, rect) {
					tiles[idx].Elements = append(tiles[idx].Elements, elementID)
				}
			}
		}
	}
	for _, layer := range layers.Layers {
		for _, id := range layer.Elements {
			el := lt.Get(id)
			assign(id, el.Border)
		}
	}
	return tiles
}
