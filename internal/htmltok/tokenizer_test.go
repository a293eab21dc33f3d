package htmltok

import (
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) ([]*Token, *errs.Log) {
	t.Helper()
	s, err := bytestream.New([]byte(input), bytestream.UTF8, bytestream.Certain)
	require.NoError(t, err)
	log := errs.NewLog()
	tok := New(s, Data, log)
	var out []*Token
	for {
		tk := tok.Next()
		out = append(out, tk)
		if tk.Type == EOF {
			break
		}
	}
	return out, log
}

func TestSimpleStartAndEndTag(t *testing.T) {
	toks, _ := tokenize(t, "<p>hi</p>")
	require.Len(t, toks, 4)
	assert.Equal(t, StartTag, toks[0].Type)
	assert.Equal(t, "p", toks[0].TagName)
	assert.Equal(t, Text, toks[1].Type)
	assert.Equal(t, "hi", toks[1].Data)
	assert.Equal(t, EndTag, toks[2].Type)
	assert.Equal(t, "p", toks[2].TagName)
	assert.Equal(t, EOF, toks[3].Type)
}

func TestSelfClosingNonVoidElement(t *testing.T) {
	toks, log := tokenize(t, `<a href="x"/>`)
	require.GreaterOrEqual(t, len(toks), 2)
	tag := toks[0]
	assert.Equal(t, StartTag, tag.Type)
	assert.Equal(t, "a", tag.TagName)
	assert.True(t, tag.SelfClosing)
	v, ok := tag.AttrValue("href")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	found := false
	for _, e := range log.Snapshot() {
		if e.Code == errs.CodeNonVoidSelfClosing {
			found = true
		}
	}
	assert.True(t, found, "expected non-void-html-element-start-tag-with-trailing-solidus error")
}

func TestDuplicateAttributeKeepsFirst(t *testing.T) {
	toks, log := tokenize(t, `<div a="1" a="2">`)
	tag := toks[0]
	v, _ := tag.AttrValue("a")
	assert.Equal(t, "1", v)
	found := false
	for _, e := range log.Snapshot() {
		if e.Code == errs.CodeDuplicateAttribute {
			found = true
		}
	}
	assert.True(t, found)
}

func TestComment(t *testing.T) {
	toks, _ := tokenize(t, "<!-- hi -->")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, Comment, toks[0].Type)
	assert.Equal(t, " hi ", toks[0].Data)
}

func TestDoctype(t *testing.T) {
	toks, _ := tokenize(t, "<!doctype html>")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, DOCTYPE, toks[0].Type)
	assert.Equal(t, "html", toks[0].Name)
}

func TestNamedCharacterReference(t *testing.T) {
	toks, _ := tokenize(t, "a &amp; b")
	assert.Equal(t, "a & b", toks[0].Data)
}

func TestUnknownNamedCharacterReferenceReinsertsAmpersand(t *testing.T) {
	toks, log := tokenize(t, "a &notareal; b")
	assert.Contains(t, toks[0].Data, "&")
	found := false
	for _, e := range log.Snapshot() {
		if e.Code == errs.CodeUnknownNamedCharRef {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNumericCharacterReference(t *testing.T) {
	toks, _ := tokenize(t, "&#65;")
	assert.Equal(t, "A", toks[0].Data)
}

func TestNullCharacterInData(t *testing.T) {
	toks, log := tokenize(t, "a\x00b")
	assert.Equal(t, "a�b", toks[0].Data)
	found := false
	for _, e := range log.Snapshot() {
		if e.Code == errs.CodeUnexpectedNull {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAppropriateEndTagInRawtext(t *testing.T) {
	s, _ := bytestream.New([]byte("hidden</style> after"), bytestream.UTF8, bytestream.Certain)
	tok := New(s, RAWTEXTState, errs.NewLog())
	tok.SwitchState(RAWTEXTState, "style")
	first := tok.Next()
	assert.Equal(t, Text, first.Type)
	assert.Equal(t, "hidden", first.Data)
	second := tok.Next()
	assert.Equal(t, EndTag, second.Type)
	assert.Equal(t, "style", second.TagName)
}

// TestTokenizeIsDeterministic checks that tokenizing the same input from
// the same initial state twice yields the same token list and error list.
func TestTokenizeIsDeterministic(t *testing.T) {
	const input = `<div class="a"><p>hi &amp; bye</p><br/></div>`
	toks1, log1 := tokenize(t, input)
	toks2, log2 := tokenize(t, input)

	require.Len(t, toks2, len(toks1))
	for i := range toks1 {
		assert.Equal(t, toks1[i].Type, toks2[i].Type)
		assert.Equal(t, toks1[i].TagName, toks2[i].TagName)
		assert.Equal(t, toks1[i].Data, toks2[i].Data)
		assert.Equal(t, toks1[i].SelfClosing, toks2[i].SelfClosing)
	}
	assert.Equal(t, log1.Snapshot(), log2.Snapshot())
}

func TestParseErrorIdempotence(t *testing.T) {
	log := errs.NewLog()
	loc := errs.Location{Line: 1, Column: 5}
	log.Add(errs.CodeDuplicateAttribute, loc, "a")
	log.Add(errs.CodeDuplicateAttribute, loc, "a")
	assert.Equal(t, 1, log.Len(), "same (line,col,code) triple must not repeat")
}
