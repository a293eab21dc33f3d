package htmltree

import (
	"github.com/npillmayer/gosub/internal/htmltok"
)

func (p *Parser) inTableMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text:
		switch p.open.currentTag() {
		case "table", "tbody", "tfoot", "thead", "tr":
			p.pendingTableText.Reset()
			p.pendingTableTextHadNonWS = false
			p.originalMode = p.mode
			p.switchMode(modeInTableText)
			p.reconsume(t)
			return
		}
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype-in-table")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "caption":
			p.clearStackToTableContext()
			p.afe.pushMarker()
			p.insertElement(t)
			p.switchMode(modeInCaption)
			return
		case "colgroup":
			p.clearStackToTableContext()
			p.insertElement(t)
			p.switchMode(modeInColumnGroup)
			return
		case "col":
			p.clearStackToTableContext()
			p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "colgroup", Location: t.Location})
			p.switchMode(modeInColumnGroup)
			p.reconsume(t)
			return
		case "tbody", "tfoot", "thead":
			p.clearStackToTableContext()
			p.insertElement(t)
			p.switchMode(modeInTableBody)
			return
		case "td", "th", "tr":
			p.clearStackToTableContext()
			p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "tbody", Location: t.Location})
			p.switchMode(modeInTableBody)
			p.reconsume(t)
			return
		case "table":
			p.err("unexpected-start-tag-table-in-table")
			if !p.open.hasInTableScope("table") {
				return
			}
			for p.open.currentTag() != "table" {
				p.open.pop()
			}
			p.open.pop()
			p.resetInsertionModeAppropriately()
			p.reconsume(t)
			return
		case "style", "script", "template":
			p.inHeadMode(t)
			return
		case "input":
			if typ, ok := t.AttrValue("type"); ok && equalFoldSimple(typ, "hidden") {
				p.err("unexpected-hidden-input-in-table")
				p.insertElement(t)
				p.open.pop()
				return
			}
		case "form":
			p.err("unexpected-form-in-table")
			if p.hasForm || p.hasOpenTemplate() {
				return
			}
			id := p.insertElement(t)
			p.formElement = id
			p.hasForm = true
			p.open.pop()
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "table":
			if !p.open.hasInTableScope("table") {
				p.err("unexpected-end-tag-table")
				return
			}
			for p.open.currentTag() != "table" {
				p.open.pop()
			}
			p.open.pop()
			p.resetInsertionModeAppropriately()
			return
		case "body", "caption", "col", "colgroup", "html", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			p.err("unexpected-end-tag-in-table")
			return
		case "template":
			p.endTemplate(t)
			return
		}
	case htmltok.EOF:
		p.inBodyMode(t)
		return
	}
	p.err("unexpected-token-in-table-fostering")
	savedFP := p.fosterParenting
	p.fosterParenting = true
	p.inBodyMode(t)
	p.fosterParenting = savedFP
}

func (p *Parser) clearStackToTableContext() {
	for {
		switch p.open.currentTag() {
		case "table", "template", "html":
			return
		}
		p.open.pop()
	}
}

func (p *Parser) clearStackToTableBodyContext() {
	for {
		switch p.open.currentTag() {
		case "tbody", "tfoot", "thead", "template", "html":
			return
		}
		p.open.pop()
	}
}

func (p *Parser) clearStackToTableRowContext() {
	for {
		switch p.open.currentTag() {
		case "tr", "template", "html":
			return
		}
		p.open.pop()
	}
}

func (p *Parser) inTableTextMode(t *htmltok.Token) {
	if t.Type == htmltok.Text {
		if containsNull(t.Data) {
			p.err("unexpected-null-character")
			return
		}
		if !isWhitespace(t.Data) {
			p.pendingTableTextHadNonWS = true
		}
		p.pendingTableText.WriteString(t.Data)
		return
	}
	text := p.pendingTableText.String()
	if p.pendingTableTextHadNonWS {
		p.err("unexpected-non-whitespace-character-in-table")
		savedFP := p.fosterParenting
		p.fosterParenting = true
		p.insertCharacter(text, t.Location)
		p.framesetOK = false
		p.fosterParenting = savedFP
	} else if text != "" {
		p.insertCharacter(text, t.Location)
	}
	p.switchMode(p.originalMode)
	p.reconsume(t)
}

func (p *Parser) inCaptionMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.EndTag:
		switch t.TagName {
		case "caption":
			if !p.open.hasInTableScope("caption") {
				p.err("unexpected-end-tag-caption")
				return
			}
			p.closeCaption()
			return
		case "table":
			if !p.open.hasInTableScope("caption") {
				p.err("unexpected-end-tag-table-in-caption")
				return
			}
			p.closeCaption()
			p.reconsume(t)
			return
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			p.err("unexpected-end-tag-in-caption")
			return
		}
	case htmltok.StartTag:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.open.hasInTableScope("caption") {
				p.err("unexpected-start-tag-in-caption")
				return
			}
			p.closeCaption()
			p.reconsume(t)
			return
		}
	}
	p.inBodyMode(t)
}

func (p *Parser) closeCaption() {
	p.generateImpliedEndTags("")
	if p.open.currentTag() != "caption" {
		p.err("unexpected-end-of-caption")
	}
	for p.open.currentTag() != "caption" {
		p.open.pop()
	}
	p.open.pop()
	p.afe.clearToMarker()
	p.switchMode(modeInTable)
}

func (p *Parser) inColumnGroupMode(t *htmltok.Token) {
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
		p.err("unexpected-doctype-in-colgroup")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "col":
			p.insertElement(t)
			p.open.pop()
			return
		case "template":
			p.inHeadMode(t)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "colgroup":
			if p.open.currentTag() != "colgroup" {
				p.err("unexpected-end-tag-colgroup")
				return
			}
			p.open.pop()
			p.switchMode(modeInTable)
			return
		case "col":
			p.err("unexpected-end-tag-col")
			return
		case "template":
			p.endTemplate(t)
			return
		}
	case htmltok.EOF:
		p.inBodyMode(t)
		return
	}
	if p.open.currentTag() != "colgroup" {
		p.err("unexpected-token-in-colgroup")
		return
	}
	p.open.pop()
	p.switchMode(modeInTable)
	p.reconsume(t)
}

func (p *Parser) inTableBodyMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.StartTag:
		switch t.TagName {
		case "tr":
			p.clearStackToTableBodyContext()
			p.insertElement(t)
			p.switchMode(modeInRow)
			return
		case "th", "td":
			p.err("unexpected-cell-in-table-body")
			p.clearStackToTableBodyContext()
			p.insertElement(&htmltok.Token{Type: htmltok.StartTag, TagName: "tr", Location: t.Location})
			p.switchMode(modeInRow)
			p.reconsume(t)
			return
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !p.open.hasInTableScope("tbody") && !p.open.hasInTableScope("thead") && !p.open.hasInTableScope("tfoot") {
				p.err("unexpected-start-tag-in-table-body")
				return
			}
			p.clearStackToTableBodyContext()
			p.open.pop()
			p.switchMode(modeInTable)
			p.reconsume(t)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "tbody", "tfoot", "thead":
			if !p.open.hasInTableScope(t.TagName) {
				p.err("unexpected-end-tag-in-table-body")
				return
			}
			p.clearStackToTableBodyContext()
			p.open.pop()
			p.switchMode(modeInTable)
			return
		case "table":
			if !p.open.hasInTableScope("tbody") && !p.open.hasInTableScope("thead") && !p.open.hasInTableScope("tfoot") {
				p.err("unexpected-end-tag-table-in-table-body")
				return
			}
			p.clearStackToTableBodyContext()
			p.open.pop()
			p.switchMode(modeInTable)
			p.reconsume(t)
			return
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			p.err("unexpected-end-tag-in-table-body")
			return
		}
	}
	p.inTableMode(t)
}

func (p *Parser) inRowMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.StartTag:
		switch t.TagName {
		case "th", "td":
			p.clearStackToTableRowContext()
			p.insertElement(t)
			p.switchMode(modeInCell)
			p.afe.pushMarker()
			return
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !p.open.hasInTableScope("tr") {
				p.err("unexpected-start-tag-in-row")
				return
			}
			p.clearStackToTableRowContext()
			p.open.pop()
			p.switchMode(modeInTableBody)
			p.reconsume(t)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "tr":
			if !p.open.hasInTableScope("tr") {
				p.err("unexpected-end-tag-tr")
				return
			}
			p.clearStackToTableRowContext()
			p.open.pop()
			p.switchMode(modeInTableBody)
			return
		case "table":
			if !p.open.hasInTableScope("tr") {
				p.err("unexpected-end-tag-table-in-row")
				return
			}
			p.clearStackToTableRowContext()
			p.open.pop()
			p.switchMode(modeInTableBody)
			p.reconsume(t)
			return
		case "tbody", "tfoot", "thead":
			if !p.open.hasInTableScope(t.TagName) || !p.open.hasInTableScope("tr") {
				p.err("unexpected-end-tag-in-row")
				return
			}
			p.clearStackToTableRowContext()
			p.open.pop()
			p.switchMode(modeInTableBody)
			p.reconsume(t)
			return
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			p.err("unexpected-end-tag-in-row")
			return
		}
	}
	p.inTableMode(t)
}

func (p *Parser) inCellMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.StartTag:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.open.hasInTableScope("td") && !p.open.hasInTableScope("th") {
				p.err("unexpected-start-tag-in-cell")
				return
			}
			p.closeCell()
			p.reconsume(t)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "td", "th":
			if !p.open.hasInTableScope(t.TagName) {
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
			p.switchMode(modeInRow)
			return
		case "body", "caption", "col", "colgroup", "html":
			p.err("unexpected-end-tag-in-cell")
			return
		case "table", "tbody", "tfoot", "thead", "tr":
			if !p.open.hasInTableScope(t.TagName) {
				p.err("unexpected-end-tag-in-cell")
				return
			}
			p.closeCell()
			p.reconsume(t)
			return
		}
	}
	p.inBodyMode(t)
}

func (p *Parser) closeCell() {
	p.generateImpliedEndTags("")
	cur := p.open.currentTag()
	if cur != "td" && cur != "th" {
		p.err("unexpected-end-of-cell")
	}
	for {
		tag := p.open.pop()
		tn := p.arena().Get(tag).TagName
		if tn == "td" || tn == "th" {
			break
		}
	}
	p.afe.clearToMarker()
	p.switchMode(modeInRow)
}

func (p *Parser) inSelectMode(t *htmltok.Token, inTable bool) {
	switch t.Type {
	case htmltok.Text:
		if containsNull(t.Data) {
			p.err("unexpected-null-character")
			return
		}
		p.insertCharacter(t.Data, t.Location)
		return
	case htmltok.Comment:
		p.insertComment(t.Data, t.Location, -1)
		return
	case htmltok.DOCTYPE:
		p.err("unexpected-doctype-in-select")
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "html":
			p.inBodyMode(t)
			return
		case "option":
			if p.open.currentTag() == "option" {
				p.open.pop()
			}
			p.insertElement(t)
			return
		case "optgroup":
			if p.open.currentTag() == "option" {
				p.open.pop()
			}
			if p.open.currentTag() == "optgroup" {
				p.open.pop()
			}
			p.insertElement(t)
			return
		case "select":
			p.err("unexpected-start-tag-select-in-select")
			if !p.open.hasInSelectScope("select") {
				return
			}
			for p.open.currentTag() != "select" {
				p.open.pop()
			}
			p.open.pop()
			p.resetInsertionModeAppropriately()
			return
		case "input", "keygen", "textarea":
			p.err("unexpected-start-tag-in-select")
			if !p.open.hasInSelectScope("select") {
				return
			}
			for p.open.currentTag() != "select" {
				p.open.pop()
			}
			p.open.pop()
			p.resetInsertionModeAppropriately()
			p.reconsume(t)
			return
		case "script", "template":
			p.inHeadMode(t)
			return
		}
	case htmltok.EndTag:
		switch t.TagName {
		case "optgroup":
			n := len(p.open.items)
			if n >= 2 && p.open.tagAt(n-1) == "option" && p.open.tagAt(n-2) == "optgroup" {
				p.open.pop()
			}
			if p.open.currentTag() == "optgroup" {
				p.open.pop()
			} else {
				p.err("unexpected-end-tag-optgroup")
			}
			return
		case "option":
			if p.open.currentTag() == "option" {
				p.open.pop()
			} else {
				p.err("unexpected-end-tag-option")
			}
			return
		case "select":
			if !p.open.hasInSelectScope("select") {
				p.err("unexpected-end-tag-select")
				return
			}
			for p.open.currentTag() != "select" {
				p.open.pop()
			}
			p.open.pop()
			p.resetInsertionModeAppropriately()
			return
		case "template":
			p.endTemplate(t)
			return
		}
	case htmltok.EOF:
		p.inBodyMode(t)
		return
	}
	if inTable {
		switch t.TagName {
		case "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if t.Type == htmltok.StartTag || t.Type == htmltok.EndTag {
				p.err("unexpected-table-token-in-select-in-table")
				if !p.open.hasInTableScope(t.TagName) {
					return
				}
				for p.open.currentTag() != "select" {
					p.open.pop()
				}
				p.open.pop()
				p.resetInsertionModeAppropriately()
				p.reconsume(t)
				return
			}
		}
	}
	p.err("unexpected-token-in-select")
}

func (p *Parser) inTemplateMode(t *htmltok.Token) {
	switch t.Type {
	case htmltok.Text, htmltok.Comment, htmltok.DOCTYPE:
		p.inBodyMode(t)
		return
	case htmltok.StartTag:
		switch t.TagName {
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			p.inHeadMode(t)
			return
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			p.popTemplateMode()
			p.pushTemplateMode(modeInTable)
			p.switchMode(modeInTable)
			p.reconsume(t)
			return
		case "col":
			p.popTemplateMode()
			p.pushTemplateMode(modeInColumnGroup)
			p.switchMode(modeInColumnGroup)
			p.reconsume(t)
			return
		case "tr":
			p.popTemplateMode()
			p.pushTemplateMode(modeInTableBody)
			p.switchMode(modeInTableBody)
			p.reconsume(t)
			return
		case "td", "th":
			p.popTemplateMode()
			p.pushTemplateMode(modeInRow)
			p.switchMode(modeInRow)
			p.reconsume(t)
			return
		default:
			p.popTemplateMode()
			p.pushTemplateMode(modeInBody)
			p.switchMode(modeInBody)
			p.reconsume(t)
			return
		}
	case htmltok.EndTag:
		if t.TagName == "template" {
			p.endTemplate(t)
			return
		}
		p.err("unexpected-end-tag-in-template")
		return
	case htmltok.EOF:
		if !p.hasOpenTemplate() {
			p.stopParsing = true
			return
		}
		p.err("unexpected-eof-in-template")
		for p.open.currentTag() != "template" {
			p.open.pop()
		}
		p.open.pop()
		p.afe.clearToMarker()
		p.popTemplateMode()
		p.resetInsertionModeAppropriately()
		p.reconsume(t)
		return
	}
}

// resetInsertionModeAppropriately implements §4.2's algorithm used after
// leaving a <template>, closing a <select> and during fragment parsing
// setup.
func (p *Parser) resetInsertionModeAppropriately() {
	for i := len(p.open.items) - 1; i >= 0; i-- {
		node := p.open.items[i]
		last := i == 0
		tag := p.arena().Get(node).TagName
		if p.isFragment && last {
			tag = p.arena().Get(p.contextElement).TagName
		}
		switch tag {
		case "select":
			for j := i; j > 0; j-- {
				anc := p.open.items[j-1]
				switch p.arena().Get(anc).TagName {
				case "template":
					p.switchMode(modeInSelect)
					return
				case "table":
					p.switchMode(modeInSelectInTable)
					return
				}
			}
			p.switchMode(modeInSelect)
			return
		case "td", "th":
			if !last {
				p.switchMode(modeInCell)
				return
			}
		case "tr":
			p.switchMode(modeInRow)
			return
		case "tbody", "thead", "tfoot":
			p.switchMode(modeInTableBody)
			return
		case "caption":
			p.switchMode(modeInCaption)
			return
		case "colgroup":
			p.switchMode(modeInColumnGroup)
			return
		case "table":
			p.switchMode(modeInTable)
			return
		case "template":
			p.switchMode(p.currentTemplateMode())
			return
		case "head":
			if !last {
				p.switchMode(modeInHead)
				return
			}
		case "body":
			p.switchMode(modeInBody)
			return
		case "frameset":
			p.switchMode(modeInFrameset)
			return
		case "html":
			if p.headElement == 0 && !p.hasOpenHead() {
				p.switchMode(modeBeforeHead)
			} else {
				p.switchMode(modeAfterHead)
			}
			return
		}
		if last {
			p.switchMode(modeInBody)
			return
		}
	}
}

func (p *Parser) hasOpenHead() bool {
	for _, id := range p.open.items {
		if p.arena().Get(id).TagName == "head" {
			return true
		}
	}
	return false
}
