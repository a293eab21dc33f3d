package layout

import (
	"testing"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/rendertree"
	"github.com/npillmayer/gosub/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kw(s string) cssom.CssValue  { return cssom.CssValue{Kind: cssom.KeywordValue, Keyword: s} }
func px(n float64) cssom.CssValue { return cssom.CssValue{Kind: cssom.DimensionValue, Number: n, Unit: "px"} }
func num(n float64) cssom.CssValue {
	return cssom.CssValue{Kind: cssom.NumberValue, Number: n}
}

func blockStyle(extra style.ComputedStyle) style.ComputedStyle {
	cs := style.ComputedStyle{"display": kw("block")}
	for k, v := range extra {
		cs[k] = v
	}
	return cs
}

// fixedAdvanceFontManager advances every word by 10px per byte, for
// deterministic wrap-point assertions independent of glyph shaping.
type fixedAdvanceFontManager struct{}

func (fixedAdvanceFontManager) Advance(s string, _ string, _ float64) float64 {
	return float64(len(s)) * 10
}
func (fixedAdvanceFontManager) LineHeight(_ string, sizePx float64) float64 { return sizePx * 1.2 }

func TestBlockChildrenStackVertically(t *testing.T) {
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(nil), Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"height": px(10)})},
		{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"height": px(20)})},
	}}
	tree := Layout(rt, 300, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 2)
	first := tree.Get(root.Children[0])
	second := tree.Get(root.Children[1])
	assert.InDelta(t, 0, first.Border.Y, 0.0001)
	assert.InDelta(t, 10, second.Border.Y, 0.0001)
	assert.InDelta(t, 30, root.Content.H, 0.0001)
}

func TestAdjoiningMarginsCollapseToLarger(t *testing.T) {
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(nil), Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"height": px(10), "margin-bottom": px(20)})},
		{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"height": px(10), "margin-top": px(15)})},
	}}
	tree := Layout(rt, 300, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	second := tree.Get(root.Children[1])
	// collapsed gap is max(20, 15) = 20, not the sum 35.
	assert.InDelta(t, 30, second.Border.Y, 0.0001)
}

func TestFlexGrowDistributesRemainingSpace(t *testing.T) {
	flexStyle := style.ComputedStyle{"display": kw("flex")}
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: flexStyle, Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(50), "flex-grow": num(1), "flex-shrink": num(1)}},
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(50), "flex-grow": num(3), "flex-shrink": num(1)}},
	}}
	tree := Layout(rt, 250, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 2)
	first := tree.Get(root.Children[0])
	second := tree.Get(root.Children[1])
	// remaining = 250-100 = 150, split 1:3 -> +37.5 and +112.5
	assert.InDelta(t, 87.5, first.Margin.W, 0.0001)
	assert.InDelta(t, 162.5, second.Margin.W, 0.0001)
	assert.InDelta(t, 0, first.Margin.X, 0.0001)
	assert.InDelta(t, 87.5, second.Margin.X, 0.0001)
}

func TestFlexShrinkDistributesOverflow(t *testing.T) {
	flexStyle := style.ComputedStyle{"display": kw("flex")}
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: flexStyle, Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(100), "flex-grow": num(0), "flex-shrink": num(1)}},
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(100), "flex-grow": num(0), "flex-shrink": num(3)}},
	}}
	tree := Layout(rt, 150, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 2)
	first := tree.Get(root.Children[0])
	second := tree.Get(root.Children[1])
	// totalBasis=200, remaining=-50, totalShrinkBasis=100*1+100*3=400
	// first loses 50*100/400=12.5, second loses 50*300/400=37.5
	assert.InDelta(t, 87.5, first.Margin.W, 0.0001)
	assert.InDelta(t, 62.5, second.Margin.W, 0.0001)
	assert.LessOrEqual(t, first.Margin.W+second.Margin.W, 150.0001, "flex row must not overflow its container")
}

func TestFlexAlignItemsCenterOffsetsCrossAxis(t *testing.T) {
	flexStyle := style.ComputedStyle{"display": kw("flex"), "align-items": kw("center")}
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: flexStyle, Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(50), "height": px(20)}},
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"flex-basis": px(50), "height": px(100)}},
	}}
	tree := Layout(rt, 100, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	short := tree.Get(root.Children[0])
	tall := tree.Get(root.Children[1])
	assert.InDelta(t, 100, tall.Margin.H, 0.0001)
	assert.InDelta(t, 40, short.Margin.Y, 0.0001, "shorter item centers within the 100px line")
}

func TestGridPlacesChildrenIntoTwoColumns(t *testing.T) {
	gridStyle := style.ComputedStyle{
		"display":                kw("grid"),
		"grid-template-columns": {Kind: cssom.ListValue, List: []cssom.CssValue{px(0), px(0)}},
	}
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: gridStyle, Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"height": px(10)}},
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"height": px(10)}},
		{Kind: rendertree.ElementNode, TagName: "span", Style: style.ComputedStyle{"height": px(10)}},
	}}
	tree := Layout(rt, 200, 0, DefaultFontManager)
	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 3)
	a := tree.Get(root.Children[0])
	b := tree.Get(root.Children[1])
	c := tree.Get(root.Children[2])
	assert.InDelta(t, 0, a.Border.X, 0.0001)
	assert.InDelta(t, 100, b.Border.X, 0.0001)
	assert.InDelta(t, 0, c.Border.X, 0.0001)
	assert.True(t, c.Border.Y > a.Border.Y)
}

func TestInlineRunWrapsAtContainerWidth(t *testing.T) {
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "p", Style: blockStyle(nil), Children: []*rendertree.Node{
		{Kind: rendertree.TextNode, Text: "aaaaa bbbbb ccccc"},
	}}
	tree := Layout(rt, 120, 0, fixedAdvanceFontManager{})
	root := tree.Get(tree.Root)
	require.Len(t, root.Children, 1)
	run := tree.Get(root.Children[0])
	// tokens: "aaaaa" " " "bbbbb" " " "ccccc"; the first four fit on one
	// line (0+50+10+50+10=120), "ccccc" overflows and wraps to a new line.
	require.Len(t, run.Runs, 5)
	assert.InDelta(t, 0, run.Runs[0].Y, 0.0001)
	assert.InDelta(t, 0, run.Runs[3].Y, 0.0001)
	assert.True(t, run.Runs[4].Y > run.Runs[0].Y)
}

// TestBlockContentWidthNeverExceedsContainer checks the layout no-overflow
// property: every block-level element with no explicit width has a
// content-box width no greater than its containing block's content-box
// width.
func TestBlockContentWidthNeverExceedsContainer(t *testing.T) {
	rt := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"padding-left": px(10)}), Children: []*rendertree.Node{
		{Kind: rendertree.ElementNode, TagName: "div", Style: blockStyle(style.ComputedStyle{"margin-left": px(5)}), Children: []*rendertree.Node{
			{Kind: rendertree.ElementNode, TagName: "span", Style: blockStyle(style.ComputedStyle{"height": px(10)})},
		}},
	}}
	tree := Layout(rt, 300, 0, DefaultFontManager)

	for _, e := range tree.Elements {
		if e.Parent < 0 || hasExplicitWidth(e.Style) {
			continue
		}
		container := tree.Get(e.Parent)
		assert.LessOrEqual(t, e.Content.W, container.Content.W, "element %d content width exceeds container %d", e.ID, container.ID)
	}
}

func hasExplicitWidth(cs style.ComputedStyle) bool {
	if cs == nil {
		return false
	}
	_, ok := cs["width"]
	return ok
}

func TestGridTrackCountDefaultsToOneForNone(t *testing.T) {
	assert.Equal(t, 1, gridTrackCount(nil, "grid-template-columns"))
	assert.Equal(t, 1, gridTrackCount(style.ComputedStyle{"grid-template-columns": kw("none")}, "grid-template-columns"))
	assert.Equal(t, 4, gridTrackCount(style.ComputedStyle{"grid-template-columns": {Kind: cssom.ListValue, List: make([]cssom.CssValue, 4)}}, "grid-template-columns"))
}
