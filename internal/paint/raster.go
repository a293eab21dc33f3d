package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/npillmayer/gosub/internal/layout"
	"golang.org/x/image/vector"
)

// ImageSource decodes a media id into an image, the same kind of
// deliberately opaque collaborator as layout.FontManager: real decoding of
// fetched bytes is out of scope here, so the default implementation
// renders a placeholder swatch.
type ImageSource interface {
	Decode(mediaID string) (image.Image, bool)
}

type placeholderImageSource struct{}

func (placeholderImageSource) Decode(string) (image.Image, bool) { return nil, false }

// DefaultImageSource is used when a Rasterizer is built without one.
var DefaultImageSource ImageSource = placeholderImageSource{}

// Rasterizer turns one tile's paint commands into an off-screen texture
// (§4.8 "Rasterizer"). Commands are translated by -tile.Rect's origin so
// geometry is always drawn in tile-local coordinates.
type Rasterizer struct {
	Images ImageSource
}

// NewRasterizer builds a Rasterizer with the default placeholder image
// source.
func NewRasterizer() *Rasterizer { return &Rasterizer{Images: DefaultImageSource} }

// RasterizeTile renders cmds (already filtered to the ones relevant to
// tile) into a TileSize x TileSize RGBA image.
func (r *Rasterizer) RasterizeTile(tile Tile, cmds []Command) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	ox, oy := tile.Rect.X, tile.Rect.Y
	for _, cmd := range cmds {
		switch cmd.Kind {
		case Rectangle, Image, Svg:
			r.paintBox(dst, cmd, ox, oy)
		case Text:
			r.paintText(dst, cmd, ox, oy)
		}
		switch cmd.Debug {
		case Wireframe:
			strokeRect(dst, translate(cmd.Rect, ox, oy), 1, color.RGBA{255, 0, 0, 255})
		case HoverOverlay:
			fillRectTint(dst, translate(cmd.DebugBoxes.Margin, ox, oy), color.RGBA{255, 200, 0, 60})
			fillRectTint(dst, translate(cmd.DebugBoxes.Border, ox, oy), color.RGBA{255, 255, 0, 60})
			fillRectTint(dst, translate(cmd.DebugBoxes.Padding, ox, oy), color.RGBA{0, 255, 0, 60})
			fillRectTint(dst, translate(cmd.DebugBoxes.Content, ox, oy), color.RGBA{0, 150, 255, 60})
		}
	}
	return dst
}

func translate(r layout.Rect, ox, oy float64) layout.Rect {
	return layout.Rect{X: r.X - ox, Y: r.Y - oy, W: r.W, H: r.H}
}

func (r *Rasterizer) paintBox(dst *image.RGBA, cmd Command, ox, oy float64) {
	rect := translate(cmd.Rect, ox, oy)
	switch cmd.Kind {
	case Image:
		if r.Images != nil {
			if img, ok := r.Images.Decode(cmd.MediaID); ok {
				drawScaledImage(dst, rect, img)
				return
			}
		}
		fillRoundedRect(dst, rect, cmd.Radii, color.RGBA{200, 200, 200, 255})
	case Svg:
		fillRoundedRect(dst, rect, cmd.Radii, color.RGBA{220, 220, 220, 255})
	default:
		if cmd.Background != nil {
			fillRoundedRect(dst, rect, cmd.Radii, cmd.Background)
		}
	}
	paintBorders(dst, rect, cmd.Borders)
}

func (r *Rasterizer) paintText(dst *image.RGBA, cmd Command, ox, oy float64) {
	// Glyph shaping is opaque to this package (layout.FontManager already
	// abstracted it away); each run paints as a solid band proportional to
	// its advance and the font size, standing in for real glyph coverage.
	for _, run := range cmd.TextRuns {
		h := cmd.FontSize * 0.7
		band := layout.Rect{X: run.X - ox, Y: run.Y - oy, W: run.Advance, H: h}
		fillRectTint(dst, band, toRGBA(cmd.TextColor, 200))
	}
}

func toRGBA(c color.Color, alpha uint8) color.RGBA {
	if c == nil {
		return color.RGBA{0, 0, 0, alpha}
	}
	r8, g8, b8, _ := c.RGBA()
	return color.RGBA{uint8(r8 >> 8), uint8(g8 >> 8), uint8(b8 >> 8), alpha}
}

func drawScaledImage(dst *image.RGBA, rect layout.Rect, src image.Image) {
	target := image.Rect(int(rect.X), int(rect.Y), int(rect.X+rect.W), int(rect.Y+rect.H))
	draw.Draw(dst, target.Intersect(dst.Bounds()), src, src.Bounds().Min, draw.Src)
}

// fillRoundedRect fills rect, clipped to its four corner radii, using an
// antialiased scanline rasterizer (§4.8's rectangle paint command, plus
// its optional radius).
func fillRoundedRect(dst *image.RGBA, rect layout.Rect, radii layout.Edges, col color.Color) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	z := vector.NewRasterizer(TileSize, TileSize)
	roundedRectPath(z, rect, radii)
	z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

const arcSegments = 8

// roundedRectPath traces a clockwise rounded-rectangle outline into z,
// starting just after the top-left corner, matching the path construction
// every 2D vector graphics library uses for this shape.
func roundedRectPath(z *vector.Rasterizer, rect layout.Rect, radii layout.Edges) {
	x, y, w, h := rect.X, rect.Y, rect.W, rect.H
	tl, tr, br, bl := clampRadius(radii.Top, w, h), clampRadius(radii.Right, w, h), clampRadius(radii.Bottom, w, h), clampRadius(radii.Left, w, h)

	pt := func(px, py float64) (float32, float32) { return float32(px), float32(py) }

	sx, sy := pt(x+tl, y)
	z.MoveTo(sx, sy)
	ex, ey := pt(x+w-tr, y)
	z.LineTo(ex, ey)
	arcTo(z, x+w-tr, y+tr, tr, -math.Pi/2, 0)
	ex, ey = pt(x+w, y+h-br)
	z.LineTo(ex, ey)
	arcTo(z, x+w-br, y+h-br, br, 0, math.Pi/2)
	ex, ey = pt(x+bl, y+h)
	z.LineTo(ex, ey)
	arcTo(z, x+bl, y+h-bl, bl, math.Pi/2, math.Pi)
	ex, ey = pt(x, y+tl)
	z.LineTo(ex, ey)
	arcTo(z, x+tl, y+tl, tl, math.Pi, 3*math.Pi/2)
	z.ClosePath()
}

func clampRadius(r, w, h float64) float64 {
	max := w / 2
	if h/2 < max {
		max = h / 2
	}
	if r > max {
		return max
	}
	if r < 0 {
		return 0
	}
	return r
}

func arcTo(z *vector.Rasterizer, cx, cy, rad, from, to float64) {
	if rad <= 0 {
		return
	}
	for i := 1; i <= arcSegments; i++ {
		a := from + (to-from)*float64(i)/float64(arcSegments)
		z.LineTo(float32(cx+rad*math.Cos(a)), float32(cy+rad*math.Sin(a)))
	}
}

// paintBorders strokes the four border edges, dispatching by style
// (§4.8): dashed/dotted use a repeating gap pattern, double draws two
// concentric strokes with a 1px gap when width >= 3 else a single stroke.
func paintBorders(dst *image.RGBA, rect layout.Rect, edges [4]BorderEdge) {
	sides := []struct {
		edge BorderEdge
		rect layout.Rect
	}{
		{edges[0], layout.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: edges[0].Width}},
		{edges[1], layout.Rect{X: rect.X + rect.W - edges[1].Width, Y: rect.Y, W: edges[1].Width, H: rect.H}},
		{edges[2], layout.Rect{X: rect.X, Y: rect.Y + rect.H - edges[2].Width, W: rect.W, H: edges[2].Width}},
		{edges[3], layout.Rect{X: rect.X, Y: rect.Y, W: edges[3].Width, H: rect.H}},
	}
	for _, s := range sides {
		paintOneBorder(dst, s.rect, s.edge)
	}
}

func paintOneBorder(dst *image.RGBA, edgeRect layout.Rect, edge BorderEdge) {
	if edge.Width <= 0 || edge.Style == "" || edge.Style == "none" {
		return
	}
	switch edge.Style {
	case "double":
		if edge.Width >= 3 {
			band := (edge.Width - 1) / 2
			fillRectTint(dst, shrinkToWidth(edgeRect, band, 0), toRGBA(edge.Color, 255))
			fillRectTint(dst, shrinkToWidth(edgeRect, band, band+1), toRGBA(edge.Color, 255))
			return
		}
		fillRectTint(dst, edgeRect, toRGBA(edge.Color, 255))
	case "dashed", "dotted":
		dashPattern(dst, edgeRect, edge)
	default: // solid and anything unrecognized fall back to a plain stroke
		fillRectTint(dst, edgeRect, toRGBA(edge.Color, 255))
	}
}

// shrinkToWidth carves a band of thickness`bandW` out of edgeRect starting
// `offset` px from its outer edge, along whichever axis is thinner (the
// stroke direction).
func shrinkToWidth(r layout.Rect, bandW, offset float64) layout.Rect {
	if r.W <= r.H { // vertical edge (left/right border): thickness is W
		return layout.Rect{X: r.X + offset, Y: r.Y, W: bandW, H: r.H}
	}
	return layout.Rect{X: r.X, Y: r.Y + offset, W: r.W, H: bandW}
}

func dashPattern(dst *image.RGBA, r layout.Rect, edge BorderEdge) {
	dash, gap := edge.Width*3, edge.Width*2
	if edge.Style == "dotted" {
		dash, gap = edge.Width, edge.Width
	}
	horizontal := r.W >= r.H
	total := r.W
	if !horizontal {
		total = r.H
	}
	for pos := 0.0; pos < total; pos += dash + gap {
		seg := math.Min(dash, total-pos)
		var segRect layout.Rect
		if horizontal {
			segRect = layout.Rect{X: r.X + pos, Y: r.Y, W: seg, H: r.H}
		} else {
			segRect = layout.Rect{X: r.X, Y: r.Y + pos, W: r.W, H: seg}
		}
		fillRectTint(dst, segRect, toRGBA(edge.Color, 255))
	}
}

func strokeRect(dst *image.RGBA, r layout.Rect, width float64, col color.Color) {
	paintBorders(dst, r, [4]BorderEdge{{width, "solid", col}, {width, "solid", col}, {width, "solid", col}, {width, "solid", col}})
}

// fillRectTint alpha-blends col over the portion of r that overlaps dst.
func fillRectTint(dst *image.RGBA, r layout.Rect, col color.RGBA) {
	bounds := dst.Bounds()
	x0, y0 := int(math.Max(r.X, float64(bounds.Min.X))), int(math.Max(r.Y, float64(bounds.Min.Y)))
	x1, y1 := int(math.Min(r.X+r.W, float64(bounds.Max.X))), int(math.Min(r.Y+r.H, float64(bounds.Max.Y)))
	if x1 <= x0 || y1 <= y0 {
		return
	}
	src := image.NewUniform(col)
	draw.Draw(dst, image.Rect(x0, y0, x1, y1), src, image.Point{}, draw.Over)
}
