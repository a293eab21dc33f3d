package cssom

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*cssast.Stylesheet, *errs.Log) {
	t.Helper()
	s, err := bytestream.New([]byte(src), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	log := errs.NewLog()
	toks := csstok.New(s, log).Tokens()
	return cssast.New(toks, log).Parse(), log
}

func TestLowerSimpleRule(t *testing.T) {
	sheet, log := parse(t, "h3, h4 { border: 1px solid black; }")
	out, _ := Lower(sheet, Environment{MediaType: "screen"}, OriginAuthor, 0, log)
	require.Len(t, out.Rules, 1)
	r := out.Rules[0]
	require.Len(t, r.Selectors, 2)
	require.Len(t, r.Declarations, 1)
	decl := r.Declarations[0]
	assert.Equal(t, "border", decl.Property)
	require.Equal(t, ListValue, decl.Value.Kind)
	require.Len(t, decl.Value.List, 3)
	assert.Equal(t, DimensionValue, decl.Value.List[0].Kind)
	assert.InDelta(t, 1, decl.Value.List[0].Number, 0.0001)
	assert.Equal(t, "px", decl.Value.List[0].Unit)
	assert.Equal(t, KeywordValue, decl.Value.List[1].Kind)
	assert.Equal(t, "solid", decl.Value.List[1].Keyword)
	assert.Equal(t, KeywordValue, decl.Value.List[2].Kind)
	assert.Equal(t, "black", decl.Value.List[2].Keyword)
	assert.False(t, decl.Important)

	require.Len(t, r.Selectors[0].Compounds, 1)
	require.Len(t, r.Selectors[0].Compounds[0].Simple, 1)
	assert.Equal(t, cssast.TypeSelector, r.Selectors[0].Compounds[0].Simple[0].Kind)
	assert.Equal(t, "h3", r.Selectors[0].Compounds[0].Simple[0].Name)
	require.Len(t, r.Selectors[1].Compounds, 1)
	require.Len(t, r.Selectors[1].Compounds[0].Simple, 1)
	assert.Equal(t, cssast.TypeSelector, r.Selectors[1].Compounds[0].Simple[0].Kind)
	assert.Equal(t, "h4", r.Selectors[1].Compounds[0].Simple[0].Name)
}

func TestMediaQueryDropsNonMatchingRule(t *testing.T) {
	sheet, log := parse(t, "@media print { a { color: red; } } b { color: blue; }")
	out, _ := Lower(sheet, Environment{MediaType: "screen", ViewportWidth: 1024}, OriginAuthor, 0, log)
	require.Len(t, out.Rules, 1)
	assert.Equal(t, "color", out.Rules[0].Declarations[0].Property)
	assert.Equal(t, "blue", out.Rules[0].Declarations[0].Value.Keyword)
}

func TestMediaQueryMinWidthMatches(t *testing.T) {
	sheet, log := parse(t, "@media screen and (min-width: 600px) { a { color: red; } }")
	out, _ := Lower(sheet, Environment{MediaType: "screen", ViewportWidth: 1024}, OriginAuthor, 0, log)
	require.Len(t, out.Rules, 1)

	out2, _ := Lower(sheet, Environment{MediaType: "screen", ViewportWidth: 320}, OriginAuthor, 0, log)
	require.Len(t, out2.Rules, 0)
}

func TestSequenceIsDocumentOrder(t *testing.T) {
	sheet, log := parse(t, "a{color:red;} b{color:blue;}")
	out, next := Lower(sheet, Environment{MediaType: "screen"}, OriginAuthor, 5, log)
	require.Len(t, out.Rules, 2)
	assert.Equal(t, 5, out.Rules[0].Sequence)
	assert.Equal(t, 6, out.Rules[1].Sequence)
	assert.Equal(t, 7, next)
}
