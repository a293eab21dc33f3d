package csstok

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) []Token {
	t.Helper()
	s, err := bytestream.New([]byte(src), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	return New(s, errs.NewLog()).Tokens()
}

func TestIdentAndFunction(t *testing.T) {
	toks := lex(t, "h3, rgba(0,0,0)")
	assert.Equal(t, Ident, toks[0].Type)
	assert.Equal(t, "h3", toks[0].Value)
	assert.Equal(t, Comma, toks[1].Type)
	var fn Token
	for _, tk := range toks {
		if tk.Type == Function {
			fn = tk
		}
	}
	assert.Equal(t, "rgba", fn.Value)
}

func TestNumberDimensionPercentage(t *testing.T) {
	toks := lex(t, "10px 50% -3.5em 1e2")
	assert.Equal(t, Dimension, toks[0].Type)
	assert.InDelta(t, 10, toks[0].NumValue, 0.0001)
	assert.Equal(t, "px", toks[0].Unit)
	assert.Equal(t, Percentage, toks[2].Type)
	assert.InDelta(t, 50, toks[2].NumValue, 0.0001)
	assert.Equal(t, Dimension, toks[4].Type)
	assert.InDelta(t, -3.5, toks[4].NumValue, 0.0001)
	assert.Equal(t, Number, toks[6].Type)
	assert.InDelta(t, 100, toks[6].NumValue, 0.0001)
}

func TestStringTokens(t *testing.T) {
	toks := lex(t, `"hello" 'world'`)
	assert.Equal(t, String, toks[0].Type)
	assert.Equal(t, "hello", toks[0].Value)
	assert.Equal(t, String, toks[2].Type)
	assert.Equal(t, "world", toks[2].Value)
}

func TestStringUnterminatedAtEOFIsString(t *testing.T) {
	toks, log := lex(t, "\"abc"), errs.NewLog()
	_ = log
	assert.Equal(t, String, toks[0].Type)
}

func TestHashIDVsUnrestricted(t *testing.T) {
	toks := lex(t, "#main #1a")
	assert.Equal(t, Hash, toks[0].Type)
	assert.Equal(t, HashID, toks[0].Hash)
	assert.Equal(t, Hash, toks[2].Type)
	assert.Equal(t, HashUnrestricted, toks[2].Hash)
}

func TestAtKeywordAndComment(t *testing.T) {
	toks := lex(t, "/* skip me */@media screen")
	assert.Equal(t, AtKeyword, toks[0].Type)
	assert.Equal(t, "media", toks[0].Value)
}

func TestURLToken(t *testing.T) {
	toks := lex(t, "url(foo.png)")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, URL, toks[0].Type)
	assert.Equal(t, "foo.png", toks[0].Value)
}

func TestCDOCDC(t *testing.T) {
	toks := lex(t, "<!-- -->")
	assert.Equal(t, CDO, toks[0].Type)
	var sawCDC bool
	for _, tk := range toks {
		if tk.Type == CDC {
			sawCDC = true
		}
	}
	assert.True(t, sawCDC)
}
