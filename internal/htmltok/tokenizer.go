package htmltok

import (
	"strings"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.htmltok")
}

// State names the tokenizer states of HTML5 §8.2.4, reduced to the subset
// needed to drive content correctly while preserving the state names a
// reader of the specification would expect.
type State int

const (
	Data State = iota
	RCDATAState
	RAWTEXTState
	ScriptDataState
	PLAINTEXTState
	TagOpen
	EndTagOpen
	TagName
	RCDATALessThanSign
	RCDATAEndTagOpen
	RCDATAEndTagName
	RAWTEXTLessThanSign
	RAWTEXTEndTagOpen
	RAWTEXTEndTagName
	ScriptDataLessThanSign
	ScriptDataEndTagOpen
	ScriptDataEndTagName
	BeforeAttributeName
	AttributeName
	AfterAttributeName
	BeforeAttributeValue
	AttributeValueDoubleQuoted
	AttributeValueSingleQuoted
	AttributeValueUnquoted
	AfterAttributeValueQuoted
	SelfClosingStartTag
	BogusComment
	MarkupDeclarationOpen
	CommentStart
	CommentStartDash
	CommentState
	CommentEndDash
	CommentEnd
	CommentEndBang
	CommentLessThanSign
	DOCTYPEState
	BeforeDOCTYPEName
	DOCTYPEName
	AfterDOCTYPEName
	AfterDOCTYPEPublicKeyword
	BeforeDOCTYPEPublicIdentifier
	DOCTYPEPublicIdentifierDoubleQuoted
	DOCTYPEPublicIdentifierSingleQuoted
	AfterDOCTYPEPublicIdentifier
	BetweenDOCTYPEPublicAndSystemIdentifiers
	AfterDOCTYPESystemKeyword
	BeforeDOCTYPESystemIdentifier
	DOCTYPESystemIdentifierDoubleQuoted
	DOCTYPESystemIdentifierSingleQuoted
	AfterDOCTYPESystemIdentifier
	BogusDOCTYPE
	CDATASection
	CharacterReferenceState
)

// Tokenizer drives the HTML5 tokenizer state machine over a byte stream.
type Tokenizer struct {
	in    *bytestream.Stream
	Errs  *errs.Log
	state State

	// lastStartTagName disambiguates appropriate end tags in
	// RAWTEXT/RCDATA/Script states (§4.1).
	lastStartTagName string

	returnState State // state to return to after a character-reference / bogus comment

	textBuf   strings.Builder
	textStart errs.Location
	haveText  bool

	pendingTag           *Token
	pendingAttrName      strings.Builder
	pendingAttrVal       strings.Builder
	pendingComment       strings.Builder
	pendingDoctype       *Token
	pendingDuplicateAttr bool
	tempBuf              strings.Builder

	eofEmitted bool
	eofPending bool
}

// New creates a tokenizer over stream, starting in the given state (the
// tree-construction stage supplies an initial-state hint when switching
// content models, e.g. upon seeing <script>).
func New(in *bytestream.Stream, initial State, log *errs.Log) *Tokenizer {
	if log == nil {
		log = errs.NewLog()
	}
	return &Tokenizer{in: in, state: initial, Errs: log}
}

// SwitchState forces the tokenizer into a content-model state (script,
// rawtext, rcdata, plaintext) for the next call to Next.
func (t *Tokenizer) SwitchState(s State, lastStartTag string) {
	t.state = s
	t.lastStartTagName = lastStartTag
}

func (t *Tokenizer) err(code errs.Code, detail string) {
	tracer().Debugf("htmltok: %s (%s) at %s", detail, code, t.in.Pos())
	t.Errs.Add(code, t.in.Pos(), detail)
}

// Pos reports the tokenizer's current position in the underlying stream,
// for error reporting by downstream consumers (tree construction).
func (t *Tokenizer) Pos() errs.Location {
	return t.in.Pos()
}

func (t *Tokenizer) startText(loc errs.Location) {
	if !t.haveText {
		t.textStart = loc
		t.haveText = true
	}
}

func (t *Tokenizer) flushText() *Token {
	if !t.haveText {
		return nil
	}
	tok := &Token{Type: Text, Location: t.textStart, Data: t.textBuf.String()}
	t.textBuf.Reset()
	t.haveText = false
	return tok
}

// Next returns exactly one token (coalescing consecutive Data/RCDATA
// characters into one Text token) and advances the cursor past the bytes
// consumed for it (§4.1 next_token contract).
func (t *Tokenizer) Next() *Token {
	if t.eofPending {
		t.eofPending = false
		t.eofEmitted = true
		return &Token{Type: EOF, Location: t.in.Pos()}
	}
	if t.eofEmitted {
		return &Token{Type: EOF, Location: t.in.Pos()}
	}
	for {
		loc := t.in.Pos()
		r, ok := t.in.Read()
		if !ok {
			if tok := t.flushText(); tok != nil {
				t.eofPending = true
				return tok
			}
			t.eofEmitted = true
			return &Token{Type: EOF, Location: loc}
		}
		if tok := t.step(r, loc); tok != nil {
			return tok
		}
	}
}

func (t *Tokenizer) step(r rune, loc errs.Location) *Token {
	switch t.state {
	case Data:
		return t.stepData(r, loc)
	case RCDATAState:
		return t.stepRCDATA(r, loc)
	case RAWTEXTState:
		return t.stepRAWTEXT(r, loc)
	case ScriptDataState:
		return t.stepScriptData(r, loc)
	case PLAINTEXTState:
		t.startText(loc)
		t.appendChar(r)
		return nil
	case RCDATALessThanSign:
		return t.stepRCDATALessThanSign(r, loc)
	case RCDATAEndTagOpen:
		return t.genericRawEndTagOpen(r, loc, RCDATAState, RCDATALessThanSign, RCDATAEndTagName)
	case RCDATAEndTagName:
		return t.stepGenericEndTagName(r, loc, RCDATAState)
	case RAWTEXTLessThanSign:
		return t.stepGenericLessThanSign(r, loc, RAWTEXTState, RAWTEXTEndTagOpen)
	case RAWTEXTEndTagOpen:
		return t.genericRawEndTagOpen(r, loc, RAWTEXTState, RAWTEXTLessThanSign, RAWTEXTEndTagName)
	case RAWTEXTEndTagName:
		return t.stepGenericEndTagName(r, loc, RAWTEXTState)
	case ScriptDataLessThanSign:
		return t.stepGenericLessThanSign(r, loc, ScriptDataState, ScriptDataEndTagOpen)
	case ScriptDataEndTagOpen:
		return t.genericRawEndTagOpen(r, loc, ScriptDataState, ScriptDataLessThanSign, ScriptDataEndTagName)
	case ScriptDataEndTagName:
		return t.stepGenericEndTagName(r, loc, ScriptDataState)
	case TagOpen:
		return t.stepTagOpen(r, loc)
	case EndTagOpen:
		return t.stepEndTagOpen(r, loc)
	case TagName:
		return t.stepTagName(r, loc)
	case BeforeAttributeName:
		return t.stepBeforeAttributeName(r, loc)
	case AttributeName:
		return t.stepAttributeName(r, loc)
	case AfterAttributeName:
		return t.stepAfterAttributeName(r, loc)
	case BeforeAttributeValue:
		return t.stepBeforeAttributeValue(r, loc)
	case AttributeValueDoubleQuoted:
		return t.stepAttributeValueQuoted(r, loc, '"')
	case AttributeValueSingleQuoted:
		return t.stepAttributeValueQuoted(r, loc, '\'')
	case AttributeValueUnquoted:
		return t.stepAttributeValueUnquoted(r, loc)
	case AfterAttributeValueQuoted:
		return t.stepAfterAttributeValueQuoted(r, loc)
	case SelfClosingStartTag:
		return t.stepSelfClosingStartTag(r, loc)
	case BogusComment:
		return t.stepBogusComment(r, loc)
	case MarkupDeclarationOpen:
		return t.stepMarkupDeclarationOpen(r, loc)
	case CommentStart:
		return t.stepCommentStart(r, loc)
	case CommentStartDash:
		return t.stepCommentStartDash(r, loc)
	case CommentState:
		return t.stepComment(r, loc)
	case CommentEndDash:
		return t.stepCommentEndDash(r, loc)
	case CommentEnd:
		return t.stepCommentEnd(r, loc)
	case CommentEndBang:
		return t.stepCommentEndBang(r, loc)
	case DOCTYPEState:
		return t.stepDoctype(r, loc)
	case BeforeDOCTYPEName:
		return t.stepBeforeDoctypeName(r, loc)
	case DOCTYPEName:
		return t.stepDoctypeName(r, loc)
	case AfterDOCTYPEName:
		return t.stepAfterDoctypeName(r, loc)
	case AfterDOCTYPEPublicKeyword:
		return t.stepAfterDoctypePublicKeyword(r, loc)
	case BeforeDOCTYPEPublicIdentifier:
		return t.stepBeforeDoctypePublicIdentifier(r, loc)
	case DOCTYPEPublicIdentifierDoubleQuoted:
		return t.stepDoctypePublicIdentifierQuoted(r, loc, '"')
	case DOCTYPEPublicIdentifierSingleQuoted:
		return t.stepDoctypePublicIdentifierQuoted(r, loc, '\'')
	case AfterDOCTYPEPublicIdentifier:
		return t.stepAfterDoctypePublicIdentifier(r, loc)
	case BetweenDOCTYPEPublicAndSystemIdentifiers:
		return t.stepBetweenDoctypePublicAndSystem(r, loc)
	case AfterDOCTYPESystemKeyword:
		return t.stepAfterDoctypeSystemKeyword(r, loc)
	case BeforeDOCTYPESystemIdentifier:
		return t.stepBeforeDoctypeSystemIdentifier(r, loc)
	case DOCTYPESystemIdentifierDoubleQuoted:
		return t.stepDoctypeSystemIdentifierQuoted(r, loc, '"')
	case DOCTYPESystemIdentifierSingleQuoted:
		return t.stepDoctypeSystemIdentifierQuoted(r, loc, '\'')
	case AfterDOCTYPESystemIdentifier:
		return t.stepAfterDoctypeSystemIdentifier(r, loc)
	case BogusDOCTYPE:
		return t.stepBogusDoctype(r, loc)
	case CDATASection:
		return t.stepCDATASection(r, loc)
	}
	return nil
}

func (t *Tokenizer) appendChar(r rune) {
	if r == 0 {
		t.err(errs.CodeUnexpectedNull, "")
		t.textBuf.WriteRune('�')
		return
	}
	t.textBuf.WriteRune(r)
}

