package htmltree

import (
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/htmltok"
)

// svgHTMLIntegrationPoints are foreign (SVG) elements that switch
// processing back to HTML content rules while inside them (§4.2).
var svgHTMLIntegrationPoints = map[string]bool{
	"foreignObject": true, "desc": true, "title": true,
}

var mathmlTextIntegrationPoints = map[string]bool{
	"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true,
}

// useForeignContent decides whether the current token should be processed
// by the foreign-content algorithm rather than the named insertion mode,
// per the "tree construction dispatcher" rules.
func (p *Parser) useForeignContent(t *htmltok.Token) bool {
	if p.open.empty() {
		return false
	}
	if t.Type == htmltok.EOF {
		return false
	}
	cur := p.open.current()
	n := p.arena().Get(cur)
	if n.NS == dom.HTML {
		return false
	}
	if mathmlTextIntegrationPoints[n.TagName] && n.NS == dom.MathML {
		if t.Type == htmltok.Text {
			return false
		}
		if t.Type == htmltok.StartTag && t.TagName != "mglyph" && t.TagName != "malignmark" {
			return false
		}
	}
	if n.NS == dom.MathML && n.TagName == "annotation-xml" {
		if t.Type == htmltok.StartTag && t.TagName == "svg" {
			return false
		}
	}
	if svgHTMLIntegrationPoints[n.TagName] && n.NS == dom.SVG {
		if t.Type == htmltok.Text || t.Type == htmltok.StartTag {
			return false
		}
	}
	return true
}

// svgTagNameFixups corrects the case of SVG element names that the
// tokenizer lowercases (§4.2 "adjust SVG tag names").
var svgTagNameFixups = map[string]string{
	"altglyph": "altGlyph", "altglyphdef": "altGlyphDef",
	"altglyphitem": "altGlyphItem", "animatecolor": "animateColor",
	"animatemotion": "animateMotion", "animatetransform": "animateTransform",
	"clippath": "clipPath", "feblend": "feBlend",
	"fecolormatrix": "feColorMatrix", "fecomponenttransfer": "feComponentTransfer",
	"fecomposite": "feComposite", "feconvolvematrix": "feConvolveMatrix",
	"fediffuselighting": "feDiffuseLighting", "fedisplacementmap": "feDisplacementMap",
	"fedistantlight": "feDistantLight", "fedropshadow": "feDropShadow",
	"feflood": "feFlood", "fefunca": "feFuncA", "fefuncb": "feFuncB",
	"fefuncg": "feFuncG", "fefuncr": "feFuncR", "fegaussianblur": "feGaussianBlur",
	"feimage": "feImage", "femerge": "feMerge", "femergenode": "feMergeNode",
	"femorphology": "feMorphology", "feoffset": "feOffset",
	"fepointlight": "fePointLight", "fespecularlighting": "feSpecularLighting",
	"fespotlight": "feSpotLight", "fetile": "feTile", "feturbulence": "feTurbulence",
	"foreignobject": "foreignObject", "glyphref": "glyphRef",
	"lineargradient": "linearGradient", "radialgradient": "radialGradient",
	"textpath": "textPath",
}

func fixSVGTagName(name string) string {
	if fixed, ok := svgTagNameFixups[name]; ok {
		return fixed
	}
	return name
}

// processForeignContent implements the "any other start/end tag" branches
// of §4.2's foreign content algorithm, simplified to element and text
// insertion without MathML/SVG attribute-namespace adjustment tables.
func (p *Parser) processForeignContent(t *htmltok.Token) {
	ns := p.arena().Get(p.open.current()).NS
	switch t.Type {
	case htmltok.Text:
		if containsNull(t.Data) {
			p.err("unexpected-null-character")
		}
		p.insertCharacter(t.Data, t.Location)
		if !isWhitespace(t.Data) {
			p.framesetOK = false
		}
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype-in-foreign-content")
		return
	case htmltok.StartTag:
		if isForeignBreakoutTag(t.TagName) {
			p.err("html-start-tag-in-foreign-content")
			for {
				cur := p.open.current()
				if p.arena().Get(cur).NS == dom.HTML {
					break
				}
				p.open.pop()
				if p.open.empty() {
					break
				}
			}
			p.dispatch(t)
			return
		}
		tag := t.TagName
		if ns == dom.SVG {
			tag = fixSVGTagName(tag)
		}
		id := p.arena().CreateElement(tag, ns, t.Location)
		n := p.arena().Get(id)
		for _, a := range t.Attrs {
			n.Attrs.Set(a.Name, a.Value)
		}
		target := p.appropriatePlaceForInsertion(-1)
		p.arena().AppendChild(target, id)
		if !t.SelfClosing {
			p.open.push(id)
		} else if tag == "script" {
			// acknowledged self-closing script in foreign content
		}
		return
	case htmltok.EndTag:
		if equalFoldSimple(t.TagName, "script") && p.arena().Get(p.open.current()).TagName == "script" {
			p.open.pop()
			return
		}
		for i := len(p.open.items) - 1; i >= 0; i-- {
			node := p.open.items[i]
			if equalFoldSimple(p.arena().Get(node).TagName, t.TagName) {
				for len(p.open.items)-1 >= i {
					p.open.pop()
				}
				return
			}
			if p.arena().Get(node).NS == dom.HTML {
				p.dispatch(t)
				return
			}
		}
		return
	}
}

func isForeignBreakoutTag(tag string) bool {
	switch tag {
	case "b", "big", "blockquote", "body", "br", "center", "code", "dd",
		"div", "dl", "dt", "em", "embed", "h1", "h2", "h3", "h4", "h5", "h6",
		"head", "hr", "i", "img", "li", "listing", "menu", "meta", "nobr",
		"ol", "p", "pre", "ruby", "s", "small", "span", "strong", "strike",
		"sub", "sup", "table", "tt", "u", "ul", "var":
		return true
	}
	return false
}
