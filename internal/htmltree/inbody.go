package htmltree

import (
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/htmltok"
)

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

var blockStartTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "header": true, "hgroup": true, "main": true, "menu": true,
	"nav": true, "ol": true, "p": true, "section": true, "summary": true, "ul": true,
}

var formattingTags = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

// inBodyMode implements §4.2's largest insertion mode: ordinary document
// body content, formatting elements feeding the active formatting elements
// list, and the adoption agency algorithm for misnested end tags.
func (p *Parser) inBodyMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		if containsNull(t.Data) {
			p.err("unexpected-null-character")
		}
		p.reconstructActiveFormattingElements()
		p.insertCharacter(t.Data, t.Location)
		if !isWhitespace(t.Data) {
			p.framesetOK = false
		}
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.EOF:
		if len(p.templateModes) > 0 {
			p.inTemplateMode(t)
			return
		}
		p.stopParsing = true
		return
	}

	if t.Type == htmltok.StartTag {
		p.inBodyStartTag(t)
		return
	}
	p.inBodyEndTag(t)
}

func containsNull(s string) bool {
	for _, r := range s {
		if r == 0 {
			return true
		}
	}
	return false
}

func (p *Parser) inBodyStartTag(t *htmltok.Token) {
	switch t.TagName {
	case "html":
		p.err("unexpected-start-tag-html-in-body")
		if !p.hasOpenTemplate() {
			root := p.open.items[0]
			for _, a := range t.Attrs {
				if _, ok := p.arena().Get(root).Attrs.Get(a.Name); !ok {
					p.arena().Get(root).Attrs.Set(a.Name, a.Value)
				}
			}
		}
		return
	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
		"style", "template", "title":
		p.inHeadMode(t)
		return
	case "body":
		p.err("unexpected-start-tag-body")
		if len(p.open.items) >= 2 {
			body := p.open.items[1]
			if p.arena().Get(body).TagName == "body" {
				p.framesetOK = false
				for _, a := range t.Attrs {
					if _, ok := p.arena().Get(body).Attrs.Get(a.Name); !ok {
						p.arena().Get(body).Attrs.Set(a.Name, a.Value)
					}
				}
			}
		}
		return
	case "frameset":
		p.err("unexpected-start-tag-frameset")
		if !p.framesetOK || len(p.open.items) < 2 {
			return
		}
		body := p.open.items[1]
		if p.arena().Get(body).HasParent {
			p.arena().Detach(body)
		}
		for len(p.open.items) > 1 {
			p.open.pop()
		}
		p.insertElement(t)
		p.switchMode(modeInFrameset)
		return
	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		p.closePElementIfInButtonScope()
		if headingTags[p.open.currentTag()] {
			p.err("nested-heading-in-body")
			p.open.pop()
		}
		p.insertElement(t)
		return
	case "pre", "listing":
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		p.framesetOK = false
		return
	case "form":
		if p.hasForm && !p.hasOpenTemplate() {
			p.err("unexpected-start-tag-form")
			return
		}
		p.closePElementIfInButtonScope()
		id := p.insertElement(t)
		if !p.hasOpenTemplate() {
			p.formElement = id
			p.hasForm = true
		}
		return
	case "li":
		p.framesetOK = false
		for i := len(p.open.items) - 1; i >= 0; i-- {
			tag := p.open.tagAt(i)
			if tag == "li" {
				p.generateImpliedEndTags("li")
				for p.open.currentTag() != "li" {
					p.open.pop()
				}
				p.open.pop()
				break
			}
			if isSpecialElement(tag) && tag != "address" && tag != "div" && tag != "p" {
				break
			}
		}
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		return
	case "dd", "dt":
		p.framesetOK = false
		for i := len(p.open.items) - 1; i >= 0; i-- {
			tag := p.open.tagAt(i)
			if tag == "dd" || tag == "dt" {
				p.generateImpliedEndTags(tag)
				for p.open.currentTag() != tag {
					p.open.pop()
				}
				p.open.pop()
				break
			}
			if isSpecialElement(tag) && tag != "address" && tag != "div" && tag != "p" {
				break
			}
		}
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		return
	case "plaintext":
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		p.tok.SwitchState(htmltok.PLAINTEXTState, "")
		return
	case "button":
		if p.open.hasInScope("button", nil) {
			p.err("unexpected-start-tag-button")
			p.generateImpliedEndTags("")
			for p.open.currentTag() != "button" {
				p.open.pop()
			}
			p.open.pop()
		}
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		p.framesetOK = false
		return
	case "a":
		if e, idx, ok := p.afe.lastMatching("a"); ok {
			_ = idx
			p.err("unexpected-start-tag-a-in-a-scope")
			p.adoptionAgency("a")
			if i := p.afe.indexOf(e.id); i != -1 {
				p.afe.removeAt(i)
			}
			p.open.removeElement(e.id)
		}
		p.reconstructActiveFormattingElements()
		id := p.insertElement(t)
		p.afe.push(id, "a", attrsOf(t))
		return
	case "b", "big", "code", "em", "font", "i", "s", "small", "strike",
		"strong", "tt", "u":
		p.reconstructActiveFormattingElements()
		id := p.insertElement(t)
		p.afe.push(id, t.TagName, attrsOf(t))
		return
	case "nobr":
		p.reconstructActiveFormattingElements()
		if p.open.hasInScope("nobr", nil) {
			p.err("unexpected-start-tag-nobr")
			p.adoptionAgency("nobr")
			p.reconstructActiveFormattingElements()
		}
		id := p.insertElement(t)
		p.afe.push(id, "nobr", attrsOf(t))
		return
	case "applet", "marquee", "object":
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		p.afe.pushMarker()
		p.framesetOK = false
		return
	case "table":
		if p.arena().Get(p.arena().Root()).Quirks != dom.Quirks {
			p.closePElementIfInButtonScope()
		}
		p.insertElement(t)
		p.framesetOK = false
		p.switchMode(modeInTable)
		return
	case "area", "br", "embed", "img", "keygen", "wbr":
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		p.open.pop()
		if t.SelfClosing {
			// acknowledged
		}
		p.framesetOK = false
		return
	case "input":
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		p.open.pop()
		if typ, ok := t.AttrValue("type"); !ok || !equalFoldSimple(typ, "hidden") {
			p.framesetOK = false
		}
		return
	case "param", "source", "track":
		p.insertElement(t)
		p.open.pop()
		return
	case "hr":
		p.closePElementIfInButtonScope()
		p.insertElement(t)
		p.open.pop()
		p.framesetOK = false
		return
	case "textarea":
		p.insertElement(t)
		p.tok.SwitchState(htmltok.RCDATAState, "textarea")
		p.framesetOK = false
		p.originalMode = p.mode
		p.switchMode(modeText)
		return
	case "xmp":
		p.closePElementIfInButtonScope()
		p.reconstructActiveFormattingElements()
		p.framesetOK = false
		p.parseTextElement(t, false)
		return
	case "iframe":
		p.framesetOK = false
		p.parseTextElement(t, false)
		return
	case "noembed":
		p.parseTextElement(t, false)
		return
	case "select":
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		p.framesetOK = false
		switch p.mode {
		case modeInTable, modeInCaption, modeInTableBody, modeInRow, modeInCell:
			p.switchMode(modeInSelectInTable)
		default:
			p.switchMode(modeInSelect)
		}
		return
	case "optgroup", "option":
		if p.open.currentTag() == "option" {
			p.open.pop()
		}
		p.reconstructActiveFormattingElements()
		p.insertElement(t)
		return
	case "rb", "rtc":
		if p.open.hasInScope("ruby", nil) {
			p.generateImpliedEndTags("")
		}
		p.insertElement(t)
		return
	case "rp", "rt":
		if p.open.hasInScope("ruby", nil) {
			p.generateImpliedEndTags("rtc")
		}
		p.insertElement(t)
		return
	case "math":
		p.reconstructActiveFormattingElements()
		p.insertForeignElement(t, dom.MathML)
		if t.SelfClosing {
			p.open.pop()
		}
		return
	case "svg":
		p.reconstructActiveFormattingElements()
		p.insertForeignElement(t, dom.SVG)
		if t.SelfClosing {
			p.open.pop()
		}
		return
	case "caption", "col", "colgroup", "frame", "head", "tbody", "td",
		"tfoot", "th", "thead", "tr":
		p.err("unexpected-start-tag-in-body")
		return
	}
	p.reconstructActiveFormattingElements()
	p.insertElement(t)
}

func equalFoldSimple(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (p *Parser) inBodyEndTag(t *htmltok.Token) {
	switch t.TagName {
	case "template":
		p.endTemplate(t)
		return
	case "body":
		if !p.open.hasInScope("body", nil) {
			p.err("unexpected-end-tag-body")
			return
		}
		p.checkAllEndedProperly()
		p.switchMode(modeAfterBody)
		return
	case "html":
		if !p.open.hasInScope("body", nil) {
			p.err("unexpected-end-tag-html")
			return
		}
		p.checkAllEndedProperly()
		p.switchMode(modeAfterBody)
		p.reconsume(t)
		return
	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !p.open.hasInScope(t.TagName, nil) {
			p.err("unexpected-end-tag-" + t.TagName)
			return
		}
		p.generateImpliedEndTags("")
		if p.open.currentTag() != t.TagName {
			p.err("unexpected-end-tag-" + t.TagName)
		}
		for {
			tag := p.open.pop()
			if p.arena().Get(tag).TagName == t.TagName {
				break
			}
		}
		return
	case "form":
		if !p.hasOpenTemplate() {
			fe := p.formElement
			p.formElement = -1
			p.hasForm = false
			if fe < 0 || !p.open.hasInScope("form", nil) && p.open.indexOf(fe) == -1 {
				p.err("unexpected-end-tag-form")
				return
			}
			p.generateImpliedEndTags("")
			if p.open.current() != fe {
				p.err("unexpected-end-tag-form")
			}
			p.open.removeElement(fe)
			return
		}
		if !p.open.hasInScope("form", nil) {
			p.err("unexpected-end-tag-form")
			return
		}
		p.generateImpliedEndTags("")
		if p.open.currentTag() != "form" {
			p.err("unexpected-end-tag-form")
		}
		for p.open.currentTag() != "form" {
			p.open.pop()
		}
		p.open.pop()
		return
	case "p":
		if !p.open.hasInButtonScope("p") {
			p.err("unexpected-end-tag-p")
			p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "p", Location: t.Location})
		}
		p.closePElement()
		return
	case "li":
		if !p.open.hasInListItemScope("li") {
			p.err("unexpected-end-tag-li")
			return
		}
		p.generateImpliedEndTags("li")
		if p.open.currentTag() != "li" {
			p.err("unexpected-end-tag-li")
		}
		for p.open.currentTag() != "li" {
			p.open.pop()
		}
		p.open.pop()
		return
	case "dd", "dt":
		if !p.open.hasInScope(t.TagName, nil) {
			p.err("unexpected-end-tag-" + t.TagName)
			return
		}
		p.generateImpliedEndTags(t.TagName)
		if p.open.currentTag() != t.TagName {
			p.err("unexpected-end-tag-" + t.TagName)
		}
		for p.open.currentTag() != t.TagName {
			p.open.pop()
		}
		p.open.pop()
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if !p.open.hasInScopeAny(headingTags, nil) {
			p.err("unexpected-end-tag-heading")
			return
		}
		p.generateImpliedEndTags("")
		if p.open.currentTag() != t.TagName {
			p.err("unexpected-end-tag-heading")
		}
		for !headingTags[p.open.currentTag()] {
			p.open.pop()
		}
		p.open.pop()
		return
	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
		"strike", "strong", "tt", "u":
		p.adoptionAgency(t.TagName)
		return
	case "applet", "marquee", "object":
		if !p.open.hasInScope(t.TagName, nil) {
			p.err("unexpected-end-tag-" + t.TagName)
			return
		}
		p.generateImpliedEndTags("")
		if p.open.currentTag() != t.TagName {
			p.err("unexpected-end-tag-" + t.TagName)
		}
		for {
			tag := p.open.pop()
			if p.arena().Get(tag).TagName == t.TagName {
				break
			}
		}
		p.afe.clearToMarker()
		return
	case "br":
		p.err("unexpected-end-tag-br")
		p.reconstructActiveFormattingElements()
		p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "br", Location: t.Location})
		p.open.pop()
		p.framesetOK = false
		return
	}
	p.anyOtherEndTagInBody(t.TagName)
}

// anyOtherEndTagInBody implements the fallback "any other end tag" branch
// of InBody, also used by the adoption agency algorithm when the
// formatting element is not found in the active formatting list.
func (p *Parser) anyOtherEndTagInBody(tag string) {
	for i := len(p.open.items) - 1; i >= 0; i-- {
		node := p.open.items[i]
		nodeTag := p.arena().Get(node).TagName
		if nodeTag == tag {
			p.generateImpliedEndTags(tag)
			if p.open.current() != node {
				p.err("unexpected-end-tag-" + tag)
			}
			for len(p.open.items)-1 >= i {
				p.open.pop()
			}
			return
		}
		if isSpecialElement(nodeTag) {
			p.err("unexpected-end-tag-" + tag)
			return
		}
	}
}

func (p *Parser) checkAllEndedProperly() {
	for _, id := range p.open.items {
		switch p.arena().Get(id).TagName {
		case "dd", "dt", "li", "optgroup", "option", "p", "rb", "rp", "rt",
			"rtc", "tbody", "td", "tfoot", "th", "thead", "tr", "body", "html":
		default:
			p.err("expected-one-end-tag-but-got-another")
			return
		}
	}
}

// reconstructActiveFormattingElements implements §4.2's namesake
// algorithm: formatting elements pushed to the afe list but popped off the
// stack of open elements by intervening content get reinstated with fresh
// clones before new content is inserted.
func (p *Parser) reconstructActiveFormattingElements() {
	if len(p.afe.entries) == 0 {
		return
	}
	last := len(p.afe.entries) - 1
	e := p.afe.entries[last]
	if e.marker || p.open.contains(e.id) {
		return
	}
	i := last
	for i > 0 {
		i--
		e = p.afe.entries[i]
		if e.marker || p.open.contains(e.id) {
			i++
			break
		}
	}
	for ; i <= last; i++ {
		e := p.afe.entries[i]
		clone := p.cloneNode(e.id)
		target := p.appropriatePlaceForInsertion(-1)
		p.arena().AppendChild(target, clone)
		p.open.push(clone)
		p.afe.entries[i].id = clone
	}
}
