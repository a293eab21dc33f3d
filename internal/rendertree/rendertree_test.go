package rendertree

import (
	"testing"

	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcludesHeadAndWhitespaceText(t *testing.T) {
	a := dom.NewArena()
	html := a.CreateElement("html", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), html)
	head := a.CreateElement("head", dom.HTML, errs.Location{})
	a.AppendChild(html, head)
	body := a.CreateElement("body", dom.HTML, errs.Location{})
	a.AppendChild(html, body)
	ws := a.CreateText("   \n  ", errs.Location{})
	a.AppendChild(body, ws)
	text := a.CreateText("hello", errs.Location{})
	a.AppendChild(body, text)

	rt := Build(a, a.Root(), nil)
	require.NotNil(t, rt)
	require.Len(t, rt.Children, 1)
	htmlNode := rt.Children[0]
	require.Len(t, htmlNode.Children, 1)
	assert.Equal(t, "body", htmlNode.Children[0].TagName)
	require.Len(t, htmlNode.Children[0].Children, 1)
	assert.Equal(t, "hello", htmlNode.Children[0].Children[0].Text)
}

func TestDisplayNoneExcludesSubtree(t *testing.T) {
	a := dom.NewArena()
	div := a.CreateElement("div", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), div)
	span := a.CreateElement("span", dom.HTML, errs.Location{})
	a.AppendChild(div, span)

	computed := map[dom.ID]style.ComputedStyle{
		span: {"display": cssom.CssValue{Kind: cssom.KeywordValue, Keyword: "none"}},
	}
	rt := Build(a, a.Root(), computed)
	require.Len(t, rt.Children, 1)
	assert.Len(t, rt.Children[0].Children, 0)
}
