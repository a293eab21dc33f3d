package style

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerCSS(t *testing.T, src string) *cssom.Stylesheet {
	t.Helper()
	s, err := bytestream.New([]byte(src), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	log := errs.NewLog()
	toks := csstok.New(s, log).Tokens()
	ast := cssast.New(toks, log).Parse()
	out, _ := cssom.Lower(ast, cssom.Environment{MediaType: "screen"}, cssom.OriginAuthor, 0, log)
	return out
}

func TestCascadePicksHigherSpecificity(t *testing.T) {
	sheet := lowerCSS(t, "p { color: blue; } p.lead { color: red; }")
	a := dom.NewArena()
	p := a.CreateElement("p", dom.HTML, errs.Location{})
	a.Get(p).Attrs.Set("class", "lead")
	a.AppendChild(a.Root(), p)

	ctx := selector.Context{Arena: a}
	log := errs.NewLog()
	computed := PropertiesFromNode(ctx, p, []*cssom.Stylesheet{sheet}, nil, log)
	require.NotNil(t, computed)
	assert.Equal(t, "red", computed["color"].Keyword)
}

func TestInheritancePropagatesToChild(t *testing.T) {
	sheet := lowerCSS(t, "div { color: green; }")
	a := dom.NewArena()
	div := a.CreateElement("div", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), div)
	p := a.CreateElement("p", dom.HTML, errs.Location{})
	a.AppendChild(div, p)

	ctx := selector.Context{Arena: a}
	log := errs.NewLog()
	all := ResolveTree(ctx, a.Root(), []*cssom.Stylesheet{sheet}, log)
	assert.Equal(t, "green", all[div]["color"].Keyword)
	assert.Equal(t, "green", all[p]["color"].Keyword)
}

func TestMarginShorthandExpansion(t *testing.T) {
	sheet := lowerCSS(t, "div { margin: 1px 2px; }")
	a := dom.NewArena()
	div := a.CreateElement("div", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), div)

	ctx := selector.Context{Arena: a}
	log := errs.NewLog()
	computed := PropertiesFromNode(ctx, div, []*cssom.Stylesheet{sheet}, nil, log)
	assert.InDelta(t, 1, computed["margin-top"].Number, 0.0001)
	assert.InDelta(t, 2, computed["margin-right"].Number, 0.0001)
	assert.InDelta(t, 1, computed["margin-bottom"].Number, 0.0001)
	assert.InDelta(t, 2, computed["margin-left"].Number, 0.0001)
}

func TestDescendantVsChildCombinatorSpecificity(t *testing.T) {
	sheet := lowerCSS(t, "div.a > p.b { color: red; } div p { color: blue; }")
	a := dom.NewArena()
	div := a.CreateElement("div", dom.HTML, errs.Location{})
	a.Get(div).Attrs.Set("class", "a")
	a.AppendChild(a.Root(), div)
	p := a.CreateElement("p", dom.HTML, errs.Location{})
	a.Get(p).Attrs.Set("class", "b")
	a.AppendChild(div, p)

	require.Len(t, sheet.Rules, 2)
	childRuleSel, descendantRuleSel := sheet.Rules[0].Selectors[0], sheet.Rules[1].Selectors[0]
	assert.Equal(t, selector.Specificity{A: 0, B: 2, C: 2}, selector.ComputeSpecificity(childRuleSel))
	assert.Equal(t, selector.Specificity{A: 0, B: 0, C: 2}, selector.ComputeSpecificity(descendantRuleSel))

	ctx := selector.Context{Arena: a}
	log := errs.NewLog()
	computed := PropertiesFromNode(ctx, p, []*cssom.Stylesheet{sheet}, nil, log)
	assert.Equal(t, "red", computed["color"].Keyword)
}

func TestUnrenderableNodeIsSkipped(t *testing.T) {
	a := dom.NewArena()
	head := a.CreateElement("head", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), head)
	ctx := selector.Context{Arena: a}
	computed := PropertiesFromNode(ctx, head, nil, nil, errs.NewLog())
	assert.Nil(t, computed)
}
