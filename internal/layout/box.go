// Package layout implements the layouter of §4.6: given a render tree and
// a viewport size, it produces a layout tree of boxed, positioned
// elements using block, inline, flex and grid formatting contexts.
package layout

import (
	"strings"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/rendertree"
	"github.com/npillmayer/gosub/internal/style"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.layout")
}

// Display is the subset of CSS `display` values the layouter handles at
// the behavioral level (§4.6).
type Display int

const (
	Block Display = iota
	Inline
	InlineBlock
	Flex
	Grid
	Table
	None
)

func displayOf(cs style.ComputedStyle) Display {
	if cs == nil {
		return Inline
	}
	switch cs["display"].Keyword {
	case "block", "list-item":
		return Block
	case "inline-block":
		return InlineBlock
	case "flex":
		return Flex
	case "grid":
		return Grid
	case "table":
		return Table
	case "none":
		return None
	default:
		return Inline
	}
}

// Rect is an axis-aligned box in layout-space pixels.
type Rect struct {
	X, Y, W, H float64
}

// Edges is a per-side box-model thickness (margin, border or padding).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// ContextTag tags a layout Element's content (§3 Layout Tree).
type ContextTag int

const (
	NoContext ContextTag = iota
	TextContext
	ImageContext
	SvgContext
)

// TextRun is a shaped line of text within a Text-context element.
type TextRun struct {
	Text    string
	X, Y    float64
	Advance float64
}

// Element is one node of the layout tree (§3).
type Element struct {
	ID       int
	DOMID    dom.ID
	Parent   int
	Children []int

	Display Display
	Context ContextTag

	Content, Padding, Border, Margin Rect
	Position                         string
	ZOrder                           int
	Radii                            Edges // per-corner border radius: Top=TL, Right=TR, Bottom=BR, Left=BL
	BorderWidths                     Edges

	Text  string
	Runs  []TextRun
	Style style.ComputedStyle
}

// Tree is the full layout result for one viewport pass.
type Tree struct {
	Elements []*Element
	Root     int
}

func (t *Tree) Get(id int) *Element { return t.Elements[id] }

func (t *Tree) new(domID dom.ID, parent int, cs style.ComputedStyle) *Element {
	e := &Element{ID: len(t.Elements), DOMID: domID, Parent: parent, Style: cs}
	t.Elements = append(t.Elements, e)
	if parent >= 0 {
		t.Elements[parent].Children = append(t.Elements[parent].Children, e.ID)
	}
	return e
}

// resolveLength reads a length/percentage/auto CssValue against a
// container dimension, per §4.6's box-model resolution. ok is false for
// `auto`, letting callers apply their own auto-margin/auto-size behavior.
func resolveLength(v cssom.CssValue, container float64) (float64, bool) {
	switch v.Kind {
	case cssom.DimensionValue:
		return pxFromUnit(v.Number, v.Unit), true
	case cssom.PercentageValue:
		return container * v.Number / 100, true
	case cssom.NumberValue:
		return v.Number, true
	case cssom.KeywordValue:
		if v.Keyword == "auto" {
			return 0, false
		}
		return 0, false
	}
	return 0, false
}

// pxFromUnit converts the small set of absolute CSS units to pixels
// (96px = 1in, per the CSS reference pixel definition); relative units
// other than px fall back to treating the number as already being in px,
// since unit-aware font metrics live outside this package's scope.
func pxFromUnit(n float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "px", "":
		return n
	case "in":
		return n * 96
	case "cm":
		return n * 96 / 2.54
	case "mm":
		return n * 96 / 25.4
	case "pt":
		return n * 96 / 72
	case "pc":
		return n * 16
	default:
		tracer().Debugf("layout: unresolved unit %q, treating %g as px", unit, n)
		return n
	}
}

func edgesFrom(cs style.ComputedStyle, prefix string, container float64) Edges {
	get := func(side string) float64 {
		v, ok := resolveLength(cs[prefix+"-"+side], container)
		if !ok {
			return 0
		}
		return v
	}
	return Edges{Top: get("top"), Right: get("right"), Bottom: get("bottom"), Left: get("left")}
}

// cornerRadii reads the four border-radius longhands into an Edges value
// where Top/Right/Bottom/Left stand for top-left/top-right/bottom-right/
// bottom-left, matching the field order layering's rounded hit test uses.
func cornerRadii(cs style.ComputedStyle, container float64) Edges {
	get := func(name string) float64 {
		v, ok := resolveLength(cs[name], container)
		if !ok {
			return 0
		}
		return v
	}
	return Edges{
		Top:    get("border-top-left-radius"),
		Right:  get("border-top-right-radius"),
		Bottom: get("border-bottom-right-radius"),
		Left:   get("border-bottom-left-radius"),
	}
}

func borderWidths(cs style.ComputedStyle, container float64) Edges {
	get := func(side string) float64 {
		v, ok := resolveLength(cs["border-"+side+"-width"], container)
		if !ok {
			return 0
		}
		return v
	}
	return Edges{Top: get("top"), Right: get("right"), Bottom: get("bottom"), Left: get("left")}
}

func inlineText(rt *rendertree.Node) bool { return rt.Kind == rendertree.TextNode }
