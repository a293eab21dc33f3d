// Package htmltree implements HTML5 tree construction (§4.2): the
// insertion-mode state machine that consumes tokens from internal/htmltok
// and builds a internal/dom arena, including the adoption agency
// algorithm, foster parenting, template contents and fragment parsing.
package htmltree

import (
	"strings"

	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltok"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.htmltree")
}

// insertionMode names one state of the tree construction dispatcher (§4.2).
type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeInHeadNoscript
	modeAfterHead
	modeInBody
	modeText
	modeInTable
	modeInTableText
	modeInCaption
	modeInColumnGroup
	modeInTableBody
	modeInRow
	modeInCell
	modeInSelect
	modeInSelectInTable
	modeInTemplate
	modeAfterBody
	modeInFrameset
	modeAfterFrameset
	modeAfterAfterBody
	modeAfterAfterFrameset
)

// Parser drives tree construction from a token source into a dom.Arena.
type Parser struct {
	tok *htmltok.Tokenizer
	dom *dom.Arena
	log *errs.Log

	open elementStack
	afe  afeList

	mode        insertionMode
	originalMode insertionMode
	templateModes []insertionMode

	headElement dom.ID
	formElement dom.ID
	hasForm     bool

	framesetOK bool
	scriptingEnabled bool

	fosterParenting bool

	pendingTableText strings.Builder
	pendingTableTextHadNonWS bool

	// fragment context, set by ParseFragment.
	isFragment     bool
	contextElement dom.ID

	stopParsing bool
	reprocess   *htmltok.Token
}

// New creates a tree builder over a tokenizer, writing into a fresh arena.
func New(tok *htmltok.Tokenizer, log *errs.Log) *Parser {
	a := dom.NewArena()
	p := &Parser{tok: tok, dom: a, log: log, mode: modeInitial, framesetOK: true}
	p.open = elementStack{arena: a}
	return p
}

func (p *Parser) arena() *dom.Arena { return p.dom }

// SetScriptingEnabled toggles the "scripting is enabled" flag (§4.2), which
// governs whether <noscript> content is parsed as raw text or as markup.
func (p *Parser) SetScriptingEnabled(enabled bool) { p.scriptingEnabled = enabled }

func (p *Parser) err(detail string) {
	tracer().Debugf("htmltree: %s in mode %d at %s", detail, p.mode, p.tok.Pos())
	p.log.Add(errs.CodeUnexpectedTokenInMode, p.tok.Pos(), detail)
}

// Parse runs tree construction to completion and returns the resulting
// document arena.
func (p *Parser) Parse() *dom.Arena {
	// Insertion modes form a forward-progressing lattice up to InBody, so a
	// reconsumed EOF always reaches a mode that terminates parsing; the
	// iteration cap only guards against a future mode-handling bug.
	for i := 0; !p.stopParsing && i < 100000; i++ {
		var t *htmltok.Token
		if p.reprocess != nil {
			t, p.reprocess = p.reprocess, nil
		} else {
			t = p.tok.Next()
		}
		p.dispatch(t)
	}
	return p.dom
}

func (p *Parser) reconsume(t *htmltok.Token) { p.reprocess = t }

// dispatch implements the "tree construction dispatcher": foreign-content
// tokens (inside SVG/MathML not at an integration point) are handled
// separately; everything else goes through the named insertion mode.
func (p *Parser) dispatch(t *htmltok.Token) {
	if p.useForeignContent(t) {
		p.processForeignContent(t)
		return
	}
	switch p.mode {
	case modeInitial:
		p.initialMode(t)
	case modeBeforeHTML:
		p.beforeHTMLMode(t)
	case modeBeforeHead:
		p.beforeHeadMode(t)
	case modeInHead:
		p.inHeadMode(t)
	case modeInHeadNoscript:
		p.inHeadNoscriptMode(t)
	case modeAfterHead:
		p.afterHeadMode(t)
	case modeInBody:
		p.inBodyMode(t)
	case modeText:
		p.textMode(t)
	case modeInTable:
		p.inTableMode(t)
	case modeInTableText:
		p.inTableTextMode(t)
	case modeInCaption:
		p.inCaptionMode(t)
	case modeInColumnGroup:
		p.inColumnGroupMode(t)
	case modeInTableBody:
		p.inTableBodyMode(t)
	case modeInRow:
		p.inRowMode(t)
	case modeInCell:
		p.inCellMode(t)
	case modeInSelect:
		p.inSelectMode(t, false)
	case modeInSelectInTable:
		p.inSelectMode(t, true)
	case modeInTemplate:
		p.inTemplateMode(t)
	case modeAfterBody:
		p.afterBodyMode(t)
	case modeInFrameset:
		p.inFramesetMode(t)
	case modeAfterFrameset:
		p.afterFramesetMode(t)
	case modeAfterAfterBody:
		p.afterAfterBodyMode(t)
	case modeAfterAfterFrameset:
		p.afterAfterFramesetMode(t)
	}
}

func (p *Parser) switchMode(m insertionMode) { p.mode = m }

// pushTemplateMode / popTemplateMode manage the stack of template insertion
// modes (§4.2 "template contents").
func (p *Parser) pushTemplateMode(m insertionMode) {
	p.templateModes = append(p.templateModes, m)
}
func (p *Parser) popTemplateMode() {
	p.templateModes = p.templateModes[:len(p.templateModes)-1]
}
func (p *Parser) currentTemplateMode() insertionMode {
	return p.templateModes[len(p.templateModes)-1]
}

// --- node creation / insertion helpers ---

func attrsOf(t *htmltok.Token) map[string]string {
	m := make(map[string]string, len(t.Attrs))
	for _, a := range t.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// appropriatePlaceForInsertion implements §4.2 "appropriate place for
// inserting a node", including foster parenting when the current node is a
// table-related element and foster parenting is in effect.
func (p *Parser) appropriatePlaceForInsertion(override dom.ID) dom.ID {
	target := override
	if target < 0 {
		target = p.open.current()
	}
	if !p.fosterParenting {
		return target
	}
	switch p.arena().Get(target).TagName {
	case "table", "tbody", "tfoot", "thead", "tr":
		return p.fosterParentTarget()
	}
	return target
}

// fosterParentTarget implements foster parenting: find the last table on
// the stack and insert before it in its parent, or at the end of the
// stack's bottom element if no table is open (§4.2).
func (p *Parser) fosterParentTarget() dom.ID {
	var lastTable dom.ID = -1
	lastTableIdx := -1
	for i := len(p.open.items) - 1; i >= 0; i-- {
		if p.arena().Get(p.open.items[i]).TagName == "table" {
			lastTable = p.open.items[i]
			lastTableIdx = i
			break
		}
	}
	if lastTable == -1 {
		return p.open.items[0]
	}
	n := p.arena().Get(lastTable)
	if n.HasParent {
		return n.Parent
	}
	if lastTableIdx > 0 {
		return p.open.items[lastTableIdx-1]
	}
	return p.open.items[0]
}

func (p *Parser) fosterInsert(child dom.ID) {
	target := p.fosterParentTarget()
	n := p.arena().Get(p.fosterTableIfAny())
	_ = n
	lastTable, lastTableIdx := p.lastTableAndIdx()
	if lastTable != -1 {
		tn := p.arena().Get(lastTable)
		if tn.HasParent {
			idx := p.arena().IndexOfChild(tn.Parent, lastTable)
			p.arena().InsertChild(tn.Parent, child, idx)
			return
		}
	}
	_ = lastTableIdx
	p.arena().AppendChild(target, child)
}

func (p *Parser) fosterTableIfAny() dom.ID {
	lt, _ := p.lastTableAndIdx()
	if lt == -1 {
		return p.open.items[0]
	}
	return lt
}

func (p *Parser) lastTableAndIdx() (dom.ID, int) {
	for i := len(p.open.items) - 1; i >= 0; i-- {
		if p.arena().Get(p.open.items[i]).TagName == "table" {
			return p.open.items[i], i
		}
	}
	return -1, -1
}

// insertElement creates an Element node from a start tag token, inserts it
// at the appropriate place, and pushes it onto the open elements stack.
func (p *Parser) insertElement(t *htmltok.Token) dom.ID {
	id := p.arena().CreateElement(t.TagName, HTML, t.Location)
	n := p.arena().Get(id)
	for _, a := range t.Attrs {
		n.Attrs.Set(a.Name, a.Value)
	}
	if p.fosterParenting && isFosterTrigger(t.TagName) {
		p.fosterInsert(id)
	} else {
		target := p.appropriatePlaceForInsertion(-1)
		p.arena().AppendChild(target, id)
	}
	p.open.push(id)
	return id
}

func isFosterTrigger(tag string) bool {
	switch tag {
	case "table", "tbody", "tfoot", "thead", "tr":
		return false
	}
	return true
}

func (p *Parser) insertForeignElement(t *htmltok.Token, ns dom.Namespace) dom.ID {
	id := p.arena().CreateElement(t.TagName, ns, t.Location)
	n := p.arena().Get(id)
	for _, a := range t.Attrs {
		n.Attrs.Set(a.Name, a.Value)
	}
	target := p.appropriatePlaceForInsertion(-1)
	p.arena().AppendChild(target, id)
	p.open.push(id)
	return id
}

// insertCharacter appends text, merging into an existing trailing Text
// child when possible (§3 "interior mutability of Text").
func (p *Parser) insertCharacter(s string, loc errs.Location) {
	target := p.appropriatePlaceForInsertion(-1)
	children := p.arena().Get(target).Children
	if len(children) > 0 {
		last := children[len(children)-1]
		if p.arena().Get(last).Kind == dom.TextKind {
			p.arena().AppendText(last, s)
			return
		}
	}
	id := p.arena().CreateText(s, loc)
	p.arena().AppendChild(target, id)
}

func (p *Parser) insertComment(data string, loc errs.Location, override dom.ID) {
	id := p.arena().CreateComment(data, loc)
	target := override
	if target < 0 {
		target = p.appropriatePlaceForInsertion(-1)
	}
	p.arena().AppendChild(target, id)
}

// cloneNode makes a shallow copy of an element (no children), used by the
// adoption agency algorithm.
func (p *Parser) cloneNode(id dom.ID) dom.ID {
	orig := p.arena().Get(id)
	clone := p.arena().CreateElement(orig.TagName, orig.NS, orig.Location)
	cn := p.arena().Get(clone)
	for _, k := range orig.Attrs.Keys() {
		v, _ := orig.Attrs.Get(k)
		cn.Attrs.Set(k, v)
	}
	return clone
}

func (p *Parser) detachFromParent(id dom.ID) {
	if p.arena().Get(id).HasParent {
		p.arena().Detach(id)
	}
}

// generateImpliedEndTags pops elements matching the implied-end-tag set,
// optionally excluding one tag name (§4.2).
func (p *Parser) generateImpliedEndTags(except string) {
	for {
		tag := p.open.currentTag()
		if !impliedEndTag[tag] || tag == except {
			return
		}
		p.open.pop()
	}
}

var impliedEndTag = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

var impliedEndTagThorough = map[string]bool{
	"caption": true, "colgroup": true, "dd": true, "dt": true, "li": true,
	"optgroup": true, "option": true, "p": true, "rb": true, "rp": true,
	"rt": true, "rtc": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true,
}

func (p *Parser) generateImpliedEndTagsThoroughly() {
	for impliedEndTagThorough[p.open.currentTag()] {
		p.open.pop()
	}
}

// closePElementIfInButtonScope implements the common "close a p element"
// step used by block-starting start tags in InBody.
func (p *Parser) closePElementIfInButtonScope() {
	if p.open.hasInButtonScope("p") {
		p.closePElement()
	}
}

func (p *Parser) closePElement() {
	p.generateImpliedEndTags("p")
	if p.open.currentTag() != "p" {
		p.err("unexpected-end-of-p-element")
	}
	for {
		tag := p.open.pop()
		if p.arena().Get(tag).TagName == "p" {
			return
		}
	}
}

func isWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

func splitLeadingWhitespace(s string) (ws, rest string) {
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\f', '\r':
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}
