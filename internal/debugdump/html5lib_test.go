package debugdump

import (
	"testing"

	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestHtml5LibFormatMatchesLineSyntax(t *testing.T) {
	a := dom.NewArena()
	html := a.CreateElement("html", dom.HTML, errs.Location{})
	a.AppendChild(a.Root(), html)
	body := a.CreateElement("body", dom.HTML, errs.Location{})
	a.Get(body).Attrs.Set("class", "b")
	a.Get(body).Attrs.Set("id", "a")
	a.AppendChild(html, body)
	text := a.CreateText("hi", errs.Location{})
	a.AppendChild(body, text)

	out := Html5LibFormat(a, a.Root())
	want := "| <html>\n" +
		"|   <body>\n" +
		"|     class=\"b\"\n" +
		"|     id=\"a\"\n" +
		"|     \"hi\"\n"
	assert.Equal(t, want, out)
}

func TestHtml5LibFormatDoctypeWithoutIdentifiers(t *testing.T) {
	a := dom.NewArena()
	dt := a.CreateDocType("html", "", "", errs.Location{})
	a.AppendChild(a.Root(), dt)
	out := Html5LibFormat(a, a.Root())
	assert.Equal(t, "| <!DOCTYPE html>\n", out)
}
