package htmltok

import (
	"strings"

	"github.com/npillmayer/gosub/internal/errs"
)

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isAlpha(r rune) bool { return (r >= 'a' && r <= 'z') || isUpper(r) }
func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', ' ':
		return true
	}
	return false
}

// --- Data / RCDATA / RAWTEXT / Script Data ---------------------------------

func (t *Tokenizer) stepData(r rune, loc errs.Location) *Token {
	switch r {
	case '&':
		t.startText(loc)
		t.resolveCharRef()
		return nil
	case '<':
		tok := t.flushText()
		t.state = TagOpen
		return tok
	default:
		t.startText(loc)
		t.appendChar(r)
		return nil
	}
}

func (t *Tokenizer) stepRCDATA(r rune, loc errs.Location) *Token {
	switch r {
	case '&':
		t.startText(loc)
		t.resolveCharRef()
		return nil
	case '<':
		tok := t.flushText()
		t.tempBuf.Reset()
		t.state = RCDATALessThanSign
		return tok
	default:
		t.startText(loc)
		t.appendChar(r)
		return nil
	}
}

func (t *Tokenizer) stepRAWTEXT(r rune, loc errs.Location) *Token {
	if r == '<' {
		tok := t.flushText()
		t.tempBuf.Reset()
		t.state = RAWTEXTLessThanSign
		return tok
	}
	t.startText(loc)
	t.appendChar(r)
	return nil
}

func (t *Tokenizer) stepScriptData(r rune, loc errs.Location) *Token {
	if r == '<' {
		tok := t.flushText()
		t.tempBuf.Reset()
		t.state = ScriptDataLessThanSign
		return tok
	}
	t.startText(loc)
	t.appendChar(r)
	return nil
}

// genericRawEndTagOpen implements the shared "</" handling of RCDATA/RAWTEXT/
// ScriptData: an ASCII letter starts an end-tag name and moves to nameState,
// which emits an end tag only if the accumulated name matches the last start
// tag name (the "appropriate end tag token" rule); anything else re-emits
// "</" as literal text.
func (t *Tokenizer) genericRawEndTagOpen(r rune, loc errs.Location, dataState, lessThan, nameState State) *Token {
	if isAlpha(r) {
		t.pendingTag = &Token{Type: EndTag, Location: loc}
		t.tempBuf.Reset()
		t.in.Reconsume()
		t.state = nameState
		return nil
	}
	t.startText(loc)
	t.appendChar('<')
	t.appendChar('/')
	t.in.Reconsume()
	t.state = dataState
	return nil
}

func (t *Tokenizer) stepGenericEndTagName(r rune, loc errs.Location, dataState State) *Token {
	if isAlpha(r) {
		t.pendingTag.TagName += string(toLower(r))
		t.tempBuf.WriteRune(r)
		return nil
	}
	appropriate := strings.EqualFold(t.pendingTag.TagName, t.lastStartTagName) && t.lastStartTagName != ""
	if appropriate && (isSpace(r) || r == '/' || r == '>') {
		switch r {
		case '>':
			tok := t.pendingTag
			t.pendingTag = nil
			t.state = Data
			return tok
		case '/':
			t.state = SelfClosingStartTag
			return nil
		default:
			t.state = BeforeAttributeName
			return nil
		}
	}
	t.startText(loc)
	t.appendChar('<')
	t.appendChar('/')
	for _, c := range t.tempBuf.String() {
		t.appendChar(c)
	}
	t.pendingTag = nil
	t.in.Reconsume()
	t.state = dataState
	return nil
}

func (t *Tokenizer) stepRCDATALessThanSign(r rune, loc errs.Location) *Token {
	if r == '/' {
		t.tempBuf.Reset()
		t.state = RCDATAEndTagOpen
		return nil
	}
	t.startText(loc)
	t.appendChar('<')
	t.in.Reconsume()
	t.state = RCDATAState
	return nil
}

// stepGenericLessThanSign implements the shared RAWTEXT/ScriptData
// less-than-sign state: only "</" begins an end-tag attempt.
func (t *Tokenizer) stepGenericLessThanSign(r rune, loc errs.Location, dataState, endTagOpenState State) *Token {
	if r == '/' {
		t.tempBuf.Reset()
		t.state = endTagOpenState
		return nil
	}
	t.startText(loc)
	t.appendChar('<')
	t.in.Reconsume()
	t.state = dataState
	return nil
}

// --- TagOpen / EndTagOpen / TagName ----------------------------------------

func (t *Tokenizer) stepTagOpen(r rune, loc errs.Location) *Token {
	switch {
	case r == '!':
		t.state = MarkupDeclarationOpen
		return nil
	case r == '/':
		t.state = EndTagOpen
		return nil
	case isAlpha(r):
		t.pendingTag = &Token{Type: StartTag, Location: loc}
		t.in.Reconsume()
		t.state = TagName
		return nil
	case r == '?':
		t.err(errs.CodeUnexpectedQuestionMark, "")
		t.pendingComment.Reset()
		t.in.Reconsume()
		t.state = BogusComment
		return nil
	default:
		t.err(errs.CodeInvalidFirstCharTagName, "")
		t.startText(loc)
		t.appendChar('<')
		t.in.Reconsume()
		t.state = Data
		return nil
	}
}

func (t *Tokenizer) stepEndTagOpen(r rune, loc errs.Location) *Token {
	switch {
	case isAlpha(r):
		t.pendingTag = &Token{Type: EndTag, Location: loc}
		t.in.Reconsume()
		t.state = TagName
		return nil
	case r == '>':
		t.err(errs.CodeInvalidFirstCharTagName, "missing end tag name")
		t.state = Data
		return nil
	default:
		t.err(errs.CodeInvalidFirstCharTagName, "")
		t.pendingComment.Reset()
		t.in.Reconsume()
		t.state = BogusComment
		return nil
	}
}

func (t *Tokenizer) stepTagName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BeforeAttributeName
		return nil
	case r == '/':
		t.state = SelfClosingStartTag
		return nil
	case r == '>':
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	case r == 0:
		t.err(errs.CodeUnexpectedNull, "")
		t.pendingTag.TagName += "�"
		return nil
	default:
		t.pendingTag.TagName += string(toLower(r))
		return nil
	}
}

// --- Attributes -------------------------------------------------------------

func (t *Tokenizer) stepBeforeAttributeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '/' || r == '>':
		t.in.Reconsume()
		t.state = AfterAttributeName
		return nil
	default:
		t.pendingAttrName.Reset()
		t.pendingAttrVal.Reset()
		t.in.Reconsume()
		t.state = AttributeName
		return nil
	}
}

func (t *Tokenizer) stepAttributeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r) || r == '/' || r == '>':
		t.in.Reconsume()
		t.finishAttrName()
		t.state = AfterAttributeName
		return nil
	case r == '=':
		t.finishAttrName()
		t.state = BeforeAttributeValue
		return nil
	case r == 0:
		t.err(errs.CodeUnexpectedNull, "")
		t.pendingAttrName.WriteRune('�')
		return nil
	default:
		t.pendingAttrName.WriteRune(toLower(r))
		return nil
	}
}

// finishAttrName appends the pending attribute name to pendingTag; for a
// name already present it records duplicate-attribute and sets
// pendingDuplicateAttr so the value that follows is dropped (first wins).
func (t *Tokenizer) finishAttrName() {
	name := t.pendingAttrName.String()
	if name == "" {
		return
	}
	for _, a := range t.pendingTag.Attrs {
		if a.Name == name {
			t.err(errs.CodeDuplicateAttribute, name)
			t.pendingAttrName.Reset()
			t.pendingDuplicateAttr = true
			return
		}
	}
	t.pendingDuplicateAttr = false
	t.pendingTag.Attrs = append(t.pendingTag.Attrs, Attr{Name: name})
	t.pendingAttrName.Reset()
}

func (t *Tokenizer) stepAfterAttributeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '/':
		t.state = SelfClosingStartTag
		return nil
	case r == '=':
		t.state = BeforeAttributeValue
		return nil
	case r == '>':
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	default:
		t.in.Reconsume()
		t.state = AttributeName
		return nil
	}
}

func (t *Tokenizer) currentAttr() *Attr {
	if t.pendingDuplicateAttr || len(t.pendingTag.Attrs) == 0 {
		return nil
	}
	return &t.pendingTag.Attrs[len(t.pendingTag.Attrs)-1]
}

func (t *Tokenizer) stepBeforeAttributeValue(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '"':
		t.state = AttributeValueDoubleQuoted
		return nil
	case r == '\'':
		t.state = AttributeValueSingleQuoted
		return nil
	case r == '>':
		t.err(errs.CodeMissingAttrValue, "")
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	default:
		t.in.Reconsume()
		t.state = AttributeValueUnquoted
		return nil
	}
}

func (t *Tokenizer) stepAttributeValueQuoted(r rune, loc errs.Location, quote rune) *Token {
	switch {
	case r == quote:
		if a := t.currentAttr(); a != nil {
			a.Value = t.pendingAttrVal.String()
		}
		t.pendingAttrVal.Reset()
		t.state = AfterAttributeValueQuoted
		return nil
	case r == '&':
		t.resolveCharRefInto(&t.pendingAttrVal)
		return nil
	case r == 0:
		t.err(errs.CodeUnexpectedNull, "")
		t.pendingAttrVal.WriteRune('�')
		return nil
	default:
		t.pendingAttrVal.WriteRune(r)
		return nil
	}
}

func (t *Tokenizer) stepAttributeValueUnquoted(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		if a := t.currentAttr(); a != nil {
			a.Value = t.pendingAttrVal.String()
		}
		t.pendingAttrVal.Reset()
		t.state = BeforeAttributeName
		return nil
	case r == '&':
		t.resolveCharRefInto(&t.pendingAttrVal)
		return nil
	case r == '>':
		if a := t.currentAttr(); a != nil {
			a.Value = t.pendingAttrVal.String()
		}
		t.pendingAttrVal.Reset()
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	default:
		t.pendingAttrVal.WriteRune(r)
		return nil
	}
}

func (t *Tokenizer) stepAfterAttributeValueQuoted(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BeforeAttributeName
		return nil
	case r == '/':
		t.state = SelfClosingStartTag
		return nil
	case r == '>':
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	default:
		t.err(errs.CodeMissingWhitespaceAttr, "")
		t.in.Reconsume()
		t.state = BeforeAttributeName
		return nil
	}
}

func (t *Tokenizer) stepSelfClosingStartTag(r rune, loc errs.Location) *Token {
	if r == '>' {
		t.pendingTag.SelfClosing = true
		if isVoidElement(t.pendingTag.TagName) == false && t.pendingTag.Type == StartTag {
			t.err(errs.CodeNonVoidSelfClosing, t.pendingTag.TagName)
		}
		tok := t.pendingTag
		t.pendingTag = nil
		if tok.Type == StartTag {
			t.lastStartTagName = tok.TagName
		}
		t.state = Data
		return tok
	}
	t.err(errs.CodeMissingWhitespaceAttr, "unexpected-solidus-in-tag")
	t.in.Reconsume()
	t.state = BeforeAttributeName
	return nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool { return voidElements[strings.ToLower(tag)] }

// --- Comments & Bogus comment ------------------------------------------------

func (t *Tokenizer) stepBogusComment(r rune, loc errs.Location) *Token {
	switch r {
	case '>':
		tok := &Token{Type: Comment, Location: loc, Data: t.pendingComment.String()}
		t.pendingComment.Reset()
		t.state = Data
		return tok
	case 0:
		t.pendingComment.WriteRune('�')
		return nil
	default:
		t.pendingComment.WriteRune(r)
		return nil
	}
}

func (t *Tokenizer) stepMarkupDeclarationOpen(r rune, loc errs.Location) *Token {
	t.in.Reconsume()
	two := t.in.LookaheadString(2)
	switch {
	case strings.HasPrefix(two, "--"):
		t.in.Read()
		t.in.Read()
		t.pendingComment.Reset()
		t.state = CommentStart
		return nil
	case strings.EqualFold(t.in.LookaheadString(7), "DOCTYPE"):
		for i := 0; i < 7; i++ {
			t.in.Read()
		}
		t.pendingDoctype = &Token{Type: DOCTYPE, Location: loc}
		t.state = DOCTYPEState
		return nil
	case strings.HasPrefix(t.in.LookaheadString(7), "[CDATA["):
		for i := 0; i < 7; i++ {
			t.in.Read()
		}
		t.err(errs.CodeCDATAInHTMLContent, "")
		t.pendingComment.Reset()
		t.state = BogusComment
		return nil
	default:
		t.err(errs.CodeBogusComment, "")
		t.pendingComment.Reset()
		t.state = BogusComment
		return nil
	}
}

func (t *Tokenizer) stepCommentStart(r rune, loc errs.Location) *Token {
	switch r {
	case '-':
		t.state = CommentStartDash
		return nil
	case '>':
		t.err(errs.CodeAbruptClosingEmptyCmt, "")
		tok := &Token{Type: Comment, Location: loc, Data: t.pendingComment.String()}
		t.pendingComment.Reset()
		t.state = Data
		return tok
	default:
		t.in.Reconsume()
		t.state = CommentState
		return nil
	}
}

func (t *Tokenizer) stepCommentStartDash(r rune, loc errs.Location) *Token {
	switch r {
	case '-':
		t.state = CommentEnd
		return nil
	case '>':
		t.err(errs.CodeAbruptClosingEmptyCmt, "")
		tok := &Token{Type: Comment, Location: loc, Data: t.pendingComment.String()}
		t.pendingComment.Reset()
		t.state = Data
		return tok
	default:
		t.pendingComment.WriteRune('-')
		t.in.Reconsume()
		t.state = CommentState
		return nil
	}
}

func (t *Tokenizer) stepComment(r rune, loc errs.Location) *Token {
	switch r {
	case '-':
		t.state = CommentEndDash
		return nil
	case 0:
		t.pendingComment.WriteRune('�')
		return nil
	case '<':
		t.pendingComment.WriteRune(r)
		return nil
	default:
		t.pendingComment.WriteRune(r)
		return nil
	}
}

func (t *Tokenizer) stepCommentEndDash(r rune, loc errs.Location) *Token {
	if r == '-' {
		t.state = CommentEnd
		return nil
	}
	t.pendingComment.WriteRune('-')
	t.in.Reconsume()
	t.state = CommentState
	return nil
}

func (t *Tokenizer) stepCommentEnd(r rune, loc errs.Location) *Token {
	switch r {
	case '>':
		tok := &Token{Type: Comment, Location: loc, Data: t.pendingComment.String()}
		t.pendingComment.Reset()
		t.state = Data
		return tok
	case '!':
		t.state = CommentEndBang
		return nil
	case '-':
		t.pendingComment.WriteRune('-')
		return nil
	default:
		t.pendingComment.WriteString("--")
		t.in.Reconsume()
		t.state = CommentState
		return nil
	}
}

func (t *Tokenizer) stepCommentEndBang(r rune, loc errs.Location) *Token {
	switch r {
	case '-':
		t.pendingComment.WriteString("--!")
		t.state = CommentEndDash
		return nil
	case '>':
		t.err(errs.CodeNestedComment, "")
		tok := &Token{Type: Comment, Location: loc, Data: t.pendingComment.String()}
		t.pendingComment.Reset()
		t.state = Data
		return tok
	default:
		t.pendingComment.WriteString("--!")
		t.in.Reconsume()
		t.state = CommentState
		return nil
	}
}

// --- DOCTYPE ------------------------------------------------------------

func (t *Tokenizer) stepDoctype(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BeforeDOCTYPEName
		return nil
	case r == '>':
		t.in.Reconsume()
		t.state = BeforeDOCTYPEName
		return nil
	default:
		t.in.Reconsume()
		t.state = BeforeDOCTYPEName
		return nil
	}
}

func (t *Tokenizer) stepBeforeDoctypeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '>':
		t.err(errs.CodeMissingDoctypeName, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	case r == 0:
		t.pendingDoctype.Name = "�"
		t.state = DOCTYPEName
		return nil
	default:
		t.pendingDoctype.Name = string(toLower(r))
		t.state = DOCTYPEName
		return nil
	}
}

func (t *Tokenizer) emitDoctype() *Token {
	tok := t.pendingDoctype
	t.pendingDoctype = nil
	t.state = Data
	return tok
}

func (t *Tokenizer) stepDoctypeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = AfterDOCTYPEName
		return nil
	case r == '>':
		return t.emitDoctype()
	case r == 0:
		t.pendingDoctype.Name += "�"
		return nil
	default:
		t.pendingDoctype.Name += string(toLower(r))
		return nil
	}
}

func (t *Tokenizer) stepAfterDoctypeName(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '>':
		return t.emitDoctype()
	default:
		word := strings.ToUpper(string(r) + t.in.LookaheadString(5))
		if strings.HasPrefix(word, "PUBLIC") {
			for i := 0; i < 5; i++ {
				t.in.Read()
			}
			t.state = AfterDOCTYPEPublicKeyword
			return nil
		}
		if strings.HasPrefix(word, "SYSTEM") {
			for i := 0; i < 5; i++ {
				t.in.Read()
			}
			t.state = AfterDOCTYPESystemKeyword
			return nil
		}
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepAfterDoctypePublicKeyword(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BeforeDOCTYPEPublicIdentifier
		return nil
	case r == '"':
		t.pendingDoctype.HasPublicID = true
		t.pendingDoctype.PublicID = ""
		t.state = DOCTYPEPublicIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasPublicID = true
		t.pendingDoctype.PublicID = ""
		t.state = DOCTYPEPublicIdentifierSingleQuoted
		return nil
	case r == '>':
		t.err(errs.CodeMissingDoctypePublicID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.err(errs.CodeMissingWhitespaceDoctype, "")
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepBeforeDoctypePublicIdentifier(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '"':
		t.pendingDoctype.HasPublicID = true
		t.state = DOCTYPEPublicIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasPublicID = true
		t.state = DOCTYPEPublicIdentifierSingleQuoted
		return nil
	case r == '>':
		t.err(errs.CodeMissingDoctypePublicID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepDoctypePublicIdentifierQuoted(r rune, loc errs.Location, quote rune) *Token {
	switch {
	case r == quote:
		t.state = AfterDOCTYPEPublicIdentifier
		return nil
	case r == 0:
		t.pendingDoctype.PublicID += "�"
		return nil
	case r == '>':
		t.err(errs.CodeAbruptDoctypePublicID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.pendingDoctype.PublicID += string(r)
		return nil
	}
}

func (t *Tokenizer) stepAfterDoctypePublicIdentifier(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BetweenDOCTYPEPublicAndSystemIdentifiers
		return nil
	case r == '>':
		return t.emitDoctype()
	case r == '"':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierSingleQuoted
		return nil
	default:
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepBetweenDoctypePublicAndSystem(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '>':
		return t.emitDoctype()
	case r == '"':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierSingleQuoted
		return nil
	default:
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepAfterDoctypeSystemKeyword(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		t.state = BeforeDOCTYPESystemIdentifier
		return nil
	case r == '"':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierSingleQuoted
		return nil
	case r == '>':
		t.err(errs.CodeMissingDoctypeSystemID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepBeforeDoctypeSystemIdentifier(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '"':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierDoubleQuoted
		return nil
	case r == '\'':
		t.pendingDoctype.HasSystemID = true
		t.state = DOCTYPESystemIdentifierSingleQuoted
		return nil
	case r == '>':
		t.err(errs.CodeMissingDoctypeSystemID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.pendingDoctype.ForceQuirks = true
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepDoctypeSystemIdentifierQuoted(r rune, loc errs.Location, quote rune) *Token {
	switch {
	case r == quote:
		t.state = AfterDOCTYPESystemIdentifier
		return nil
	case r == 0:
		t.pendingDoctype.SystemID += "�"
		return nil
	case r == '>':
		t.err(errs.CodeAbruptDoctypeSystemID, "")
		t.pendingDoctype.ForceQuirks = true
		return t.emitDoctype()
	default:
		t.pendingDoctype.SystemID += string(r)
		return nil
	}
}

func (t *Tokenizer) stepAfterDoctypeSystemIdentifier(r rune, loc errs.Location) *Token {
	switch {
	case isSpace(r):
		return nil
	case r == '>':
		return t.emitDoctype()
	default:
		t.err(errs.CodeMissingWhitespaceAttr, "unexpected-character-after-doctype-system-identifier")
		t.in.Reconsume()
		t.state = BogusDOCTYPE
		return nil
	}
}

func (t *Tokenizer) stepBogusDoctype(r rune, loc errs.Location) *Token {
	if r == '>' {
		return t.emitDoctype()
	}
	return nil
}

// --- CDATA section (foreign content only) -----------------------------------

func (t *Tokenizer) stepCDATASection(r rune, loc errs.Location) *Token {
	if r == ']' && t.in.LookaheadString(2) == "]>" {
		t.in.Read()
		t.in.Read()
		tok := t.flushText()
		t.state = Data
		return tok
	}
	t.startText(loc)
	t.textBuf.WriteRune(r)
	return nil
}
