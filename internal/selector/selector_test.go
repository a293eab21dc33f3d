package selector

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSelector(t *testing.T, src string) cssast.ComplexSelector {
	t.Helper()
	s, err := bytestream.New([]byte(src), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	log := errs.NewLog()
	toks := csstok.New(s, log).Tokens()
	comps := cssast.ParseComponentValues(toks, log)
	sels := cssast.ParseSelectorList(comps, log)
	require.Len(t, sels, 1)
	return sels[0]
}

func buildTree(a *dom.Arena) (div, p dom.ID) {
	div = a.CreateElement("div", dom.HTML, errs.Location{})
	div_n := a.Get(div)
	div_n.Attrs = dom.NewAttrMap()
	div_n.Attrs.Set("class", "a")
	a.AppendChild(a.Root(), div)

	p = a.CreateElement("p", dom.HTML, errs.Location{})
	pn := a.Get(p)
	pn.Attrs = dom.NewAttrMap()
	pn.Attrs.Set("class", "b")
	a.AppendChild(div, p)
	return
}

func TestChildCombinatorSpecificity(t *testing.T) {
	a := dom.NewArena()
	_, p := buildTree(a)
	cs := parseSelector(t, "div.a > p.b")

	ctx := Context{Arena: a}
	assert.True(t, Matches(ctx, p, cs))
	sp := ComputeSpecificity(cs)
	assert.Equal(t, Specificity{A: 0, B: 2, C: 2}, sp)
}

func TestDescendantCombinator(t *testing.T) {
	a := dom.NewArena()
	_, p := buildTree(a)
	cs := parseSelector(t, "div p")
	ctx := Context{Arena: a}
	assert.True(t, Matches(ctx, p, cs))
	sp := ComputeSpecificity(cs)
	assert.Equal(t, Specificity{A: 0, B: 0, C: 2}, sp)
}

func TestFirstChildPseudoClass(t *testing.T) {
	a := dom.NewArena()
	_, p := buildTree(a)
	cs := parseSelector(t, "p:first-child")
	ctx := Context{Arena: a}
	assert.True(t, Matches(ctx, p, cs))
}
