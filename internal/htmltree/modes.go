package htmltree

import (
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltok"
)

// applyDoctype applies the quirks-detection algorithm to a DOCTYPE token
// and records it on the document root.
func (p *Parser) applyDoctype(t *htmltok.Token) {
	id := p.arena().CreateDocType(t.Name, t.PublicID, t.SystemID, t.Location)
	p.arena().AppendChild(p.arena().Root(), id)
	qm := QuirksModeFor(t.Name, t.PublicID, t.SystemID, t.HasPublicID, t.HasSystemID, t.ForceQuirks)
	p.arena().Get(p.arena().Root()).Quirks = qm
}

func (p *Parser) initialMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		_ = ws
		if rest == "" {
			return
		}
		p.switchMode(modeBeforeHTML)
		p.reconsume(&htmltok.Token{Type: htmltok.Text, Data: rest, Location: t.Location})
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, p.arena().Root())
		return
	case htmltok.DOCTYPE:
		p.applyDoctype(t)
		p.switchMode(modeBeforeHTML)
		return
	}
	p.err("expected-doctype-but-got-" + t.Type.String())
	p.switchMode(modeBeforeHTML)
	p.reconsume(t)
}

func (p *Parser) beforeHTMLMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, p.arena().Root())
		return
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		_ = ws
		if rest == "" {
			return
		}
	case htmltok.StartTag:
		if t.TagName == "html" {
			p.createHTMLElement(t)
			p.switchMode(modeBeforeHead)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			p.err("unexpected-end-tag-before-html")
			return
		}
	}
	p.createHTMLElementImplied(t.Location)
	p.switchMode(modeBeforeHead)
	p.reconsume(t)
}

func (p *Parser) createHTMLElement(t *htmltok.Token) dom.ID {
	id := p.arena().CreateElement("html", dom.HTML, t.Location)
	for _, a := range t.Attrs {
		p.arena().Get(id).Attrs.Set(a.Name, a.Value)
	}
	p.arena().AppendChild(p.arena().Root(), id)
	p.open.push(id)
	return id
}

func (p *Parser) createHTMLElementImplied(loc errs.Location) dom.ID {
	id := p.arena().CreateElement("html", dom.HTML, loc)
	p.arena().AppendChild(p.arena().Root(), id)
	p.open.push(id)
	return id
}

func (p *Parser) beforeHeadMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		_ = ws
		if rest == "" {
			return
		}
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "head":
			id := p.insertElement(t)
			p.headElement = id
			p.switchMode(modeInHead)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			p.err("unexpected-end-tag-before-head")
			return
		}
	}
	id := p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "head", Location: t.Location})
	p.headElement = id
	p.switchMode(modeInHead)
	p.reconsume(t)
}

func (p *Parser) inHeadMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		if rest == "" {
			return
		}
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "base", "basefont", "bgsound", "link", "meta":
			p.insertElement(t)
			p.open.pop()
			return
		case "title":
			p.parseTextElement(t, true)
			return
		case "noscript":
			if !p.scriptingEnabled {
				p.insertElement(t)
				p.switchMode(modeInHeadNoscript)
				return
			}
			p.parseTextElement(t, false)
			return
		case "noframes", "style":
			p.parseTextElement(t, false)
			return
		case "script":
			p.insertElement(t)
			p.tok.SwitchState(htmltok.ScriptDataState, "script")
			p.originalMode = p.mode
			p.switchMode(modeText)
			return
		case "template":
			p.insertElement(t)
			p.afe.pushMarker()
			p.framesetOK = false
			p.switchMode(modeInTemplate)
			p.pushTemplateMode(modeInTemplate)
			return
		case "head":
			p.err("unexpected-start-tag-head")
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "head":
			p.open.pop()
			p.switchMode(modeAfterHead)
			return
		case "body", "html", "br":
		case "template":
			p.endTemplate(t)
			return
		default:
			p.err("unexpected-end-tag-in-head")
			return
		}
	}
	p.open.pop()
	p.switchMode(modeAfterHead)
	p.reconsume(t)
}

func (p *Parser) endTemplate(t *htmltok.Token) {
	if !p.hasOpenTemplate() {
		p.err("end-tag-template-without-open-template")
		return
	}
	p.generateImpliedEndTagsThoroughly()
	if p.open.currentTag() != "template" {
		p.err("unexpected-end-of-template")
	}
	for p.open.currentTag() != "template" {
		p.open.pop()
	}
	p.open.pop()
	p.afe.clearToMarker()
	p.popTemplateMode()
	p.resetInsertionModeAppropriately()
}

func (p *Parser) hasOpenTemplate() bool {
	for i := len(p.open.items) - 1; i >= 0; i-- {
		if p.arena().Get(p.open.items[i]).TagName == "template" {
			return true
		}
	}
	return false
}

// parseTextElement implements the "generic raw text"/"generic rcdata"
// element parsing algorithm shared by title (RCDATA) and
// style/noframes/noscript/xmp/iframe/noembed (RAWTEXT); textarea and
// script switch tokenizer state in their own handlers.
func (p *Parser) parseTextElement(t *htmltok.Token, rcdata bool) {
	p.insertElement(t)
	if rcdata {
		p.tok.SwitchState(htmltok.RCDATAState, t.TagName)
	} else {
		p.tok.SwitchState(htmltok.RAWTEXTState, t.TagName)
	}
	p.originalMode = p.mode
	p.switchMode(modeText)
}

func (p *Parser) inHeadNoscriptMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			p.inHeadMode(t)
			return
		case "head", "noscript":
			p.err("unexpected-start-tag-in-head-noscript")
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "noscript":
			p.open.pop()
			p.switchMode(modeInHead)
			return
		case "br":
		default:
			p.err("unexpected-end-tag-in-head-noscript")
			return
		}
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		if rest == "" {
			if ws != "" {
				p.insertCharacter(ws, t.Location)
			}
			return
		}
	case htmltok.Comment:
		p.inHeadMode(t)
		return
	}
	p.err("unexpected-token-in-head-noscript")
	p.open.pop()
	p.switchMode(modeInHead)
	p.reconsume(t)
}

func (p *Parser) afterHeadMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		if rest == "" {
			return
		}
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "body":
			p.insertElement(t)
			p.framesetOK = false
			p.switchMode(modeInBody)
			return
		case "frameset":
			p.insertElement(t)
			p.switchMode(modeInFrameset)
			return
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			p.err("unexpected-start-tag-after-head")
			p.open.push(p.headElement)
			p.inHeadMode(t)
			p.open.removeElement(p.headElement)
			return
		case "head":
			p.err("unexpected-start-tag-head-after-head")
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "body", "html", "br":
		case "template":
			p.inHeadMode(t)
			return
		default:
			p.err("unexpected-end-tag-after-head")
			return
		}
	}
	id := p.arena().CreateElement("body", dom.HTML, t.Location)
	p.arena().AppendChild(p.appropriatePlaceForInsertion(-1), id)
	p.open.push(id)
	p.switchMode(modeInBody)
	p.reconsume(t)
}

func (p *Parser) textMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		p.insertCharacter(t.Data, t.Location)
		return
	case htmltok.EOF:
		p.err("unexpected-eof-in-text-mode")
		p.open.pop()
		p.switchMode(p.originalMode)
		p.reconsume(t)
		return
	case htmltok.EndTag:
		p.open.pop()
		p.switchMode(p.originalMode)
		return
	}
}

func (p *Parser) afterBodyMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		if rest == "" {
			return
		}
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, p.open.items[0])
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		if t.TagName == "html" {
			p.inBodyMode(t)
			return
		}
	case htmltok.EndTag:
		if t.TagName == "html" {
			p.switchMode(modeAfterAfterBody)
			return
		}
	case htmltok.EOF:
		p.stopParsing = true
		return
	}
	p.err("unexpected-token-after-body")
	p.switchMode(modeInBody)
	p.reconsume(t)
}

func (p *Parser) afterAfterBodyMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, p.arena().Root())
		return
	case htmltok.DOCTYPE:
		p.inBodyMode(t)
		return
	case htmltok.Text:
		ws, rest := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		if rest == "" {
			return
		}
	case htmltok.StartTag:
		if t.TagName == "html" {
			p.inBodyMode(t)
			return
		}
	case htmltok.EOF:
		p.stopParsing = true
		return
	}
	p.err("unexpected-token-after-after-body")
	p.switchMode(modeInBody)
	p.reconsume(t)
}

func (p *Parser) inFramesetMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, _ := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "frameset":
			p.insertElement(t)
			return
		case "frame":
			p.insertElement(t)
			p.open.pop()
			return
		case "noframes":
			p.inHeadMode(t)
			return
		}
	case htmltok.EndTag:
		if t.TagName == "frameset" {
			if p.open.currentTag() == "html" {
				p.err("unexpected-frameset-end-tag")
				return
			}
			p.open.pop()
			if p.open.currentTag() != "frameset" {
				p.switchMode(modeAfterFrameset)
			}
			return
		}
	case htmltok.EOF:
		p.stopParsing = true
		return
	}
	p.err("unexpected-token-in-frameset")
}

func (p *Parser) afterFramesetMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		ws, _ := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "noframes":
			p.inHeadMode(t)
			return
		}
	case htmltok.EndTag:
		if t.TagName == "html" {
			p.switchMode(modeAfterAfterFrameset)
			return
		}
	case htmltok.EOF:
		p.stopParsing = true
		return
	}
	p.err("unexpected-token-after-frameset")
}

func (p *Parser) afterAfterFramesetMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, p.arena().Root())
		return
	case htmltok.DOCTYPE:
		p.inBodyMode(t)
		return
	case htmltok.Text:
		ws, _ := splitLeadingWhitespace(t.Data)
		if ws != "" {
			p.insertCharacter(ws, t.Location)
		}
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "noframes":
			p.inHeadMode(t)
			return
		}
	case htmltok.EOF:
		p.stopParsing = true
		return
	}
	p.err("unexpected-token-after-after-frameset")
}
