package cssast

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(t *testing.T, src string) []csstok.Token {
	t.Helper()
	s, err := bytestream.New([]byte(src), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	return csstok.New(s, errs.NewLog()).Tokens()
}

func TestParseSimpleStyleRule(t *testing.T) {
	log := errs.NewLog()
	sheet := New(tokens(t, "p.intro { color: red; margin: 0 auto; }"), log).Parse()
	require.Len(t, sheet.Rules, 1)
	r := sheet.Rules[0]
	assert.Equal(t, QualifiedRuleKind, r.Kind)
	require.NotNil(t, r.Block)

	sels := ParseSelectorList(r.Prelude, log)
	require.Len(t, sels, 1)
	require.Len(t, sels[0].Compounds, 1)
	require.Len(t, sels[0].Compounds[0].Simple, 2)
	assert.Equal(t, TypeSelector, sels[0].Compounds[0].Simple[0].Kind)
	assert.Equal(t, "p", sels[0].Compounds[0].Simple[0].Name)
	assert.Equal(t, ClassSelector, sels[0].Compounds[0].Simple[1].Kind)
	assert.Equal(t, "intro", sels[0].Compounds[0].Simple[1].Name)

	decls := ParseDeclarationList(r.Block, log)
	require.Len(t, decls, 2)
	assert.Equal(t, "color", decls[0].Name)
	assert.Equal(t, "margin", decls[1].Name)
	assert.Equal(t, 0, log.Len())
}

func TestParseImportantDeclaration(t *testing.T) {
	log := errs.NewLog()
	sheet := New(tokens(t, "a { color: blue !important; }"), log).Parse()
	decls := ParseDeclarationList(sheet.Rules[0].Block, log)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].Important)
}

func TestParseAtRuleWithBlock(t *testing.T) {
	log := errs.NewLog()
	sheet := New(tokens(t, "@media screen and (min-width: 600px) { a { color: red; } }"), log).Parse()
	require.Len(t, sheet.Rules, 1)
	r := sheet.Rules[0]
	assert.Equal(t, AtRuleKind, r.Kind)
	assert.Equal(t, "media", r.Name)

	queries := ParseMediaQueryList(r.Prelude)
	require.Len(t, queries, 1)
	assert.Equal(t, "screen", queries[0].MediaType)
	require.Len(t, queries[0].Features, 1)
	assert.Equal(t, "min-width", queries[0].Features[0].Name)
}

func TestDescendantAndChildCombinators(t *testing.T) {
	log := errs.NewLog()
	sels := ParseSelectorList(tokensToComponents(t, "div > p .foo"), log)
	require.Len(t, sels, 1)
	require.Len(t, sels[0].Compounds, 3)
	require.Len(t, sels[0].Combinators, 2)
	assert.Equal(t, Child, sels[0].Combinators[0])
	assert.Equal(t, Descendant, sels[0].Combinators[1])
}

func TestAttributeSelectorMatchers(t *testing.T) {
	log := errs.NewLog()
	sels := ParseSelectorList(tokensToComponents(t, `a[href^="https://"]`), log)
	require.Len(t, sels, 1)
	attr := sels[0].Compounds[0].Simple[1]
	assert.Equal(t, AttrSelector, attr.Kind)
	assert.Equal(t, AttrPrefix, attr.AttrOp)
	assert.Equal(t, "https://", attr.AttrValue)
	assert.Equal(t, 0, log.Len())
}

func TestNthChildAnPlusB(t *testing.T) {
	log := errs.NewLog()
	sels := ParseSelectorList(tokensToComponents(t, "li:nth-child(2n+1)"), log)
	require.Len(t, sels, 1)
	pseudo := sels[0].Compounds[0].Simple[1]
	assert.Equal(t, "nth-child", pseudo.Name)
	a, b, ok := ParseAnPlusB(pseudo.PseudoArgs, log)
	require.True(t, ok)
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

func TestAnPlusBOddEven(t *testing.T) {
	log := errs.NewLog()
	a, b, ok := ParseAnPlusB(tokens(t, "odd"), log)
	require.True(t, ok)
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)

	a, b, ok = ParseAnPlusB(tokens(t, "even"), log)
	require.True(t, ok)
	assert.Equal(t, 2, a)
	assert.Equal(t, 0, b)
}

func TestAnPlusBMalformedFallsBackToZero(t *testing.T) {
	log := errs.NewLog()
	a, b, ok := ParseAnPlusB(tokens(t, "n+"), log)
	assert.False(t, ok)
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)
	assert.Equal(t, 1, log.Len())
}

// tokensToComponents lexes src and wraps each non-block token as a
// ComponentValue, expanding any bracket/paren groups into SimpleBlocks so
// selector parsing sees the same shape the rule parser would hand it.
func tokensToComponents(t *testing.T, src string) []ComponentValue {
	t.Helper()
	return ParseComponentValues(tokens(t, src), errs.NewLog())
}
