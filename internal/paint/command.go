package paint

import (
	"image/color"

	"github.com/npillmayer/gosub/internal/layout"
)

// Kind tags the variant of a Command (§4.8 "Painter").
type Kind int

const (
	Rectangle Kind = iota
	Text
	Image
	Svg
)

// BorderEdge is one side's stroke description.
type BorderEdge struct {
	Width float64
	Style string // "none", "solid", "dashed", "dotted", "double"
	Color color.Color
}

// DebugMode tags an overlay composited on top of the normal paint for an
// element (§4.8 debug modes), independent of and additive to Kind.
type DebugMode int

const (
	NoDebug DebugMode = iota
	Wireframe
	HoverOverlay
)

// Command is one paint instruction in absolute (pre-tile-translation)
// coordinates.
type Command struct {
	Kind      Kind
	ElementID int
	Rect      layout.Rect // border-box for Rectangle/Image/Svg, padding-box for Text
	Radii     layout.Edges

	Background color.Color // nil = no fill
	Borders    [4]BorderEdge // top, right, bottom, left

	TextRuns   []layout.TextRun
	FontFamily string
	FontSize   float64
	TextColor  color.Color

	MediaID string

	Debug DebugMode

	// DebugBoxes carries the margin/padding/content rects for the
	// hover-overlay debug mode, which tints each distinctly.
	DebugBoxes struct {
		Margin, Border, Padding, Content layout.Rect
	}
}

// Generate turns one layout tree into its ordered list of paint commands,
// tagging the hovered element (if any) for the overlay debug mode and
// optionally wireframing every element's border box (§4.8 "Painter").
func Generate(tree *layout.Tree, hoveredID int, wireframe bool) []Command {
	var cmds []Command
	for _, el := range tree.Elements {
		cmds = append(cmds, commandsFor(el)...)
		if wireframe {
			cmds = append(cmds, Command{Kind: Rectangle, ElementID: el.ID, Rect: el.Border, Debug: Wireframe,
				Borders: [4]BorderEdge{{Width: 1, Style: "solid", Color: color.RGBA{255, 0, 0, 255}}, {Width: 1, Style: "solid", Color: color.RGBA{255, 0, 0, 255}}, {Width: 1, Style: "solid", Color: color.RGBA{255, 0, 0, 255}}, {Width: 1, Style: "solid", Color: color.RGBA{255, 0, 0, 255}}}})
		}
		if el.ID == hoveredID {
			overlay := Command{Kind: Rectangle, ElementID: el.ID, Debug: HoverOverlay}
			overlay.DebugBoxes.Margin = el.Margin
			overlay.DebugBoxes.Border = el.Border
			overlay.DebugBoxes.Padding = el.Padding
			overlay.DebugBoxes.Content = el.Content
			cmds = append(cmds, overlay)
		}
	}
	return cmds
}

func commandsFor(el *layout.Element) []Command {
	switch el.Context {
	case layout.TextContext:
		return []Command{textCommand(el)}
	case layout.ImageContext:
		return []Command{imageCommand(el)}
	case layout.SvgContext:
		return []Command{svgCommand(el)}
	default:
		return []Command{rectangleCommand(el)}
	}
}

func ownColor(el *layout.Element) color.Color {
	if el.Style == nil {
		return color.RGBA{0, 0, 0, 255}
	}
	if c, ok := resolveColor(el.Style["color"]); ok {
		return c
	}
	return color.RGBA{0, 0, 0, 255}
}

func rectangleCommand(el *layout.Element) Command {
	cmd := Command{Kind: Rectangle, ElementID: el.ID, Rect: el.Border, Radii: el.Radii}
	if el.Style == nil {
		return cmd
	}
	if bg, ok := resolveColor(el.Style["background-color"]); ok {
		cmd.Background = bg
	}
	style := el.Style["border-style"].Keyword
	borderColor, ok := resolveColor(el.Style["border-color"])
	if !ok {
		borderColor = ownColor(el) // currentcolor / unset falls back to the element's own color
	}
	edge := func(w float64) BorderEdge {
		if w <= 0 || style == "" || style == "none" {
			return BorderEdge{Style: "none"}
		}
		return BorderEdge{Width: w, Style: style, Color: borderColor}
	}
	cmd.Borders = [4]BorderEdge{edge(el.BorderWidths.Top), edge(el.BorderWidths.Right), edge(el.BorderWidths.Bottom), edge(el.BorderWidths.Left)}
	return cmd
}

func textCommand(el *layout.Element) Command {
	family, size := "sans-serif", 16.0
	if el.Style != nil {
		if v, ok := el.Style["font-family"]; ok && v.Keyword != "" {
			family = v.Keyword
		}
		if v, ok := el.Style["font-size"]; ok && v.Number > 0 {
			size = v.Number
		}
	}
	return Command{
		Kind: Text, ElementID: el.ID, Rect: el.Padding,
		TextRuns: el.Runs, FontFamily: family, FontSize: size, TextColor: ownColor(el),
	}
}

func imageCommand(el *layout.Element) Command {
	cmd := rectangleCommand(el)
	cmd.Kind = Image
	cmd.MediaID = el.Text // the image element's src/content is threaded through as Text by convention
	return cmd
}

func svgCommand(el *layout.Element) Command {
	return Command{Kind: Svg, ElementID: el.ID, Rect: el.Border, MediaID: el.Text}
}
