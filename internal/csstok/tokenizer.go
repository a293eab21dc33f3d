package csstok

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.csstok")
}

// Tokenizer implements the CSS Syntax Level 3 "consume a token" algorithm
// over a byte stream.
type Tokenizer struct {
	in   *bytestream.Stream
	Errs *errs.Log
}

// New creates a tokenizer over a decoded CSS source stream.
func New(in *bytestream.Stream, log *errs.Log) *Tokenizer {
	if log == nil {
		log = errs.NewLog()
	}
	return &Tokenizer{in: in, Errs: log}
}

func (t *Tokenizer) err(code errs.Code, detail string) {
	tracer().Debugf("csstok: %s (%s) at %s", detail, code, t.in.Pos())
	t.Errs.Add(code, t.in.Pos(), detail)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

func isName(r rune) bool { return isNameStart(r) || isDigit(r) || r == '-' }

func isNonPrintable(r rune) bool {
	return (r >= 0x00 && r <= 0x08) || r == 0x0B || (r >= 0x0E && r <= 0x1F) || r == 0x7F
}

// Tokens lexes the full input into a slice, terminating with an EOF token.
func (t *Tokenizer) Tokens() []Token {
	var out []Token
	for {
		tok := t.Next()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

// Next consumes and returns the next token (§4.3 "consume a token").
func (t *Tokenizer) Next() Token {
	loc := t.in.Pos()
	r, ok := t.in.Read()
	if !ok {
		return Token{Type: EOF, Location: loc}
	}

	switch {
	case isWhitespace(r):
		for {
			r2, ok := t.in.Lookahead(0)
			if !ok || !isWhitespace(r2) {
				break
			}
			t.in.Read()
		}
		return Token{Type: Whitespace, Location: loc}
	case r == '"' || r == '\'':
		return t.consumeString(r, loc)
	case r == '#':
		if r2, ok := t.in.Lookahead(0); ok && (isName(r2) || t.startsValidEscape(0)) {
			ht := HashUnrestricted
			if t.wouldStartIdentifier() {
				ht = HashID
			}
			name := t.consumeName()
			return Token{Type: Hash, Value: name, Hash: ht, Location: loc}
		}
		return Token{Type: Delim, Value: "#", Location: loc}
	case r == '(':
		return Token{Type: LeftParen, Location: loc}
	case r == ')':
		return Token{Type: RightParen, Location: loc}
	case r == '[':
		return Token{Type: LeftBracket, Location: loc}
	case r == ']':
		return Token{Type: RightBracket, Location: loc}
	case r == '{':
		return Token{Type: LeftBrace, Location: loc}
	case r == '}':
		return Token{Type: RightBrace, Location: loc}
	case r == ',':
		return Token{Type: Comma, Location: loc}
	case r == ':':
		return Token{Type: Colon, Location: loc}
	case r == ';':
		return Token{Type: Semicolon, Location: loc}
	case r == '+' || r == '.':
		if t.startsNumber(r) {
			t.in.Reconsume()
			return t.consumeNumeric(loc)
		}
		return Token{Type: Delim, Value: string(r), Location: loc}
	case r == '-':
		if t.startsNumber(r) {
			t.in.Reconsume()
			return t.consumeNumeric(loc)
		}
		if r1, ok1 := t.in.Lookahead(0); ok1 && r1 == '-' {
			if r2, ok2 := t.in.Lookahead(1); ok2 && r2 == '>' {
				t.in.Read()
				t.in.Read()
				return Token{Type: CDC, Location: loc}
			}
		}
		if t.wouldStartIdentifierFrom(r) {
			t.in.Reconsume()
			return t.consumeIdentLike(loc)
		}
		return Token{Type: Delim, Value: "-", Location: loc}
	case r == '<':
		if t.in.LookaheadString(3) == "!--" {
			t.in.Read()
			t.in.Read()
			t.in.Read()
			return Token{Type: CDO, Location: loc}
		}
		return Token{Type: Delim, Value: "<", Location: loc}
	case r == '@':
		if t.wouldStartIdentifier() {
			name := t.consumeName()
			return Token{Type: AtKeyword, Value: name, Location: loc}
		}
		return Token{Type: Delim, Value: "@", Location: loc}
	case r == '\\':
		if t.startsValidEscapeFrom(r) {
			t.in.Reconsume()
			return t.consumeIdentLike(loc)
		}
		t.err(errs.CodeCSSUnterminated, "invalid escape")
		return Token{Type: Delim, Value: "\\", Location: loc}
	case r == '/':
		if r2, ok := t.in.Lookahead(0); ok && r2 == '*' {
			t.in.Read()
			t.consumeComment()
			return t.Next()
		}
		return Token{Type: Delim, Value: "/", Location: loc}
	case isDigit(r):
		t.in.Reconsume()
		return t.consumeNumeric(loc)
	case isNameStart(r):
		t.in.Reconsume()
		return t.consumeIdentLike(loc)
	}
	return Token{Type: Delim, Value: string(r), Location: loc}
}

func (t *Tokenizer) consumeComment() {
	for {
		r, ok := t.in.Read()
		if !ok {
			t.err(errs.CodeCSSUnterminated, "unterminated comment")
			return
		}
		if r == '*' {
			if r2, ok := t.in.Lookahead(0); ok && r2 == '/' {
				t.in.Read()
				return
			}
		}
	}
}

func (t *Tokenizer) startsValidEscape(offset int) bool {
	r0, ok0 := t.in.Lookahead(offset)
	if !ok0 || r0 != '\\' {
		return false
	}
	r1, ok1 := t.in.Lookahead(offset + 1)
	return ok1 && r1 != '\n'
}

func (t *Tokenizer) startsValidEscapeFrom(first rune) bool {
	if first != '\\' {
		return false
	}
	r1, ok1 := t.in.Lookahead(0)
	return ok1 && r1 != '\n'
}

// wouldStartIdentifier checks the three code points beginning at the
// current read position (§4.3 "would start an identifier").
func (t *Tokenizer) wouldStartIdentifier() bool {
	r0, ok0 := t.in.Lookahead(0)
	if !ok0 {
		return false
	}
	return t.wouldStartIdentifierFrom(r0)
}

func (t *Tokenizer) wouldStartIdentifierFrom(first rune) bool {
	switch {
	case first == '-':
		r1, ok1 := t.in.Lookahead(0)
		if ok1 && (isNameStart(r1) || r1 == '-') {
			return true
		}
		return t.startsValidEscape(1)
	case isNameStart(first):
		return true
	case first == '\\':
		return t.startsValidEscapeFrom(first)
	}
	return false
}

func (t *Tokenizer) startsNumber(first rune) bool {
	switch first {
	case '+', '-':
		r1, ok1 := t.in.Lookahead(0)
		if ok1 && isDigit(r1) {
			return true
		}
		if ok1 && r1 == '.' {
			r2, ok2 := t.in.Lookahead(1)
			return ok2 && isDigit(r2)
		}
		return false
	case '.':
		r1, ok1 := t.in.Lookahead(0)
		return ok1 && isDigit(r1)
	}
	return isDigit(first)
}

func (t *Tokenizer) consumeName() string {
	var b strings.Builder
	for {
		r, ok := t.in.Lookahead(0)
		if !ok {
			return b.String()
		}
		if isName(r) {
			b.WriteRune(r)
			t.in.Read()
			continue
		}
		if t.startsValidEscape(0) {
			t.in.Read()
			b.WriteRune(t.consumeEscaped())
			continue
		}
		return b.String()
	}
}

func (t *Tokenizer) consumeEscaped() rune {
	r, ok := t.in.Read()
	if !ok {
		return 0xFFFD
	}
	if isHex(r) {
		var hex strings.Builder
		hex.WriteRune(r)
		for i := 0; i < 5; i++ {
			r2, ok := t.in.Lookahead(0)
			if !ok || !isHex(r2) {
				break
			}
			hex.WriteRune(r2)
			t.in.Read()
		}
		if r2, ok := t.in.Lookahead(0); ok && isWhitespace(r2) {
			t.in.Read()
		}
		v, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil || v == 0 || v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			return 0xFFFD
		}
		return rune(v)
	}
	return r
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (t *Tokenizer) consumeString(quote rune, loc errs.Location) Token {
	var b strings.Builder
	for {
		r, ok := t.in.Read()
		if !ok {
			t.err(errs.CodeCSSUnterminated, "eof-in-string")
			return Token{Type: String, Value: b.String(), Location: loc}
		}
		if r == quote {
			return Token{Type: String, Value: b.String(), Location: loc}
		}
		if r == '\n' {
			t.err(errs.CodeCSSUnterminated, "newline-in-string")
			t.in.Reconsume()
			return Token{Type: BadString, Value: b.String(), Location: loc}
		}
		if r == '\\' {
			if r2, ok := t.in.Lookahead(0); ok {
				if r2 == '\n' {
					t.in.Read()
					continue
				}
				b.WriteRune(t.consumeEscaped())
				continue
			}
			continue
		}
		b.WriteRune(r)
	}
}

func (t *Tokenizer) consumeNumeric(loc errs.Location) Token {
	numStr, intLike := t.consumeNumber()
	if t.wouldStartIdentifier() {
		unit := t.consumeName()
		v, _ := strconv.ParseFloat(numStr, 64)
		return Token{Type: Dimension, NumValue: v, IntLike: intLike, Unit: unit, Location: loc}
	}
	if r, ok := t.in.Lookahead(0); ok && r == '%' {
		t.in.Read()
		v, _ := strconv.ParseFloat(numStr, 64)
		return Token{Type: Percentage, NumValue: v, Location: loc}
	}
	v, _ := strconv.ParseFloat(numStr, 64)
	return Token{Type: Number, NumValue: v, IntLike: intLike, Location: loc}
}

func (t *Tokenizer) consumeNumber() (string, bool) {
	var b strings.Builder
	intLike := true
	if r, ok := t.in.Lookahead(0); ok && (r == '+' || r == '-') {
		b.WriteRune(r)
		t.in.Read()
	}
	for {
		r, ok := t.in.Lookahead(0)
		if !ok || !isDigit(r) {
			break
		}
		b.WriteRune(r)
		t.in.Read()
	}
	if r, ok := t.in.Lookahead(0); ok && r == '.' {
		if r2, ok2 := t.in.Lookahead(1); ok2 && isDigit(r2) {
			intLike = false
			b.WriteRune(r)
			t.in.Read()
			for {
				r3, ok3 := t.in.Lookahead(0)
				if !ok3 || !isDigit(r3) {
					break
				}
				b.WriteRune(r3)
				t.in.Read()
			}
		}
	}
	if r, ok := t.in.Lookahead(0); ok && (r == 'e' || r == 'E') {
		off := 1
		if r2, ok2 := t.in.Lookahead(1); ok2 && (r2 == '+' || r2 == '-') {
			off = 2
		}
		if r3, ok3 := t.in.Lookahead(off); ok3 && isDigit(r3) {
			intLike = false
			for i := 0; i <= off; i++ {
				c, _ := t.in.Read()
				b.WriteRune(c)
			}
			for {
				r4, ok4 := t.in.Lookahead(0)
				if !ok4 || !isDigit(r4) {
					break
				}
				b.WriteRune(r4)
				t.in.Read()
			}
		}
	}
	return b.String(), intLike
}

func (t *Tokenizer) consumeIdentLike(loc errs.Location) Token {
	name := t.consumeName()
	if strings.EqualFold(name, "url") {
		if r, ok := t.in.Lookahead(0); ok && r == '(' {
			t.in.Read()
			for {
				r1, ok1 := t.in.Lookahead(0)
				r2, ok2 := t.in.Lookahead(1)
				if ok1 && ok2 && isWhitespace(r1) && isWhitespace(r2) {
					t.in.Read()
					continue
				}
				break
			}
			r1, ok1 := t.in.Lookahead(0)
			if ok1 && (r1 == '"' || r1 == '\'') {
				return t.consumeFunction(name, loc)
			}
			if ok1 && isWhitespace(r1) {
				r2, ok2 := t.in.Lookahead(1)
				if ok2 && (r2 == '"' || r2 == '\'') {
					return t.consumeFunction(name, loc)
				}
			}
			return t.consumeURL(loc)
		}
	}
	if r, ok := t.in.Lookahead(0); ok && r == '(' {
		t.in.Read()
		return Token{Type: Function, Value: name, Location: loc}
	}
	return Token{Type: Ident, Value: name, Location: loc}
}

func (t *Tokenizer) consumeFunction(name string, loc errs.Location) Token {
	t.in.Read() // consume '('
	return Token{Type: Function, Value: name, Location: loc}
}

func (t *Tokenizer) consumeURL(loc errs.Location) Token {
	var b strings.Builder
	for {
		r, ok := t.in.Lookahead(0)
		if !ok {
			t.err(errs.CodeCSSUnterminated, "eof-in-url")
			return Token{Type: URL, Value: b.String(), Location: loc}
		}
		if isWhitespace(r) {
			for {
				r2, ok2 := t.in.Lookahead(0)
				if !ok2 || !isWhitespace(r2) {
					break
				}
				t.in.Read()
			}
			r3, ok3 := t.in.Lookahead(0)
			if !ok3 {
				return Token{Type: URL, Value: b.String(), Location: loc}
			}
			if r3 == ')' {
				t.in.Read()
				return Token{Type: URL, Value: b.String(), Location: loc}
			}
			return t.consumeBadURL(b.String(), loc)
		}
		if r == ')' {
			t.in.Read()
			return Token{Type: URL, Value: b.String(), Location: loc}
		}
		if r == '"' || r == '\'' || r == '(' || isNonPrintable(r) {
			t.err(errs.CodeCSSUnterminated, "bad-url")
			t.in.Read()
			return t.consumeBadURL(b.String(), loc)
		}
		if r == '\\' {
			t.in.Read()
			if t.startsValidEscapeFrom('\\') {
				b.WriteRune(t.consumeEscaped())
				continue
			}
			t.err(errs.CodeCSSUnterminated, "bad-escape-in-url")
			return t.consumeBadURL(b.String(), loc)
		}
		b.WriteRune(r)
		t.in.Read()
	}
}

func (t *Tokenizer) consumeBadURL(partial string, loc errs.Location) Token {
	for {
		r, ok := t.in.Read()
		if !ok {
			return Token{Type: BadURL, Value: partial, Location: loc}
		}
		if r == ')' {
			return Token{Type: BadURL, Value: partial, Location: loc}
		}
		if r == '\\' && t.startsValidEscapeFrom('\\') {
			t.consumeEscaped()
		}
	}
}
