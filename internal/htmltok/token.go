// Package htmltok implements the HTML5 tokenizer state machine (§4.1): a
// state machine over the byte stream that emits DOCTYPE, StartTag, EndTag,
// Comment, Text and EOF tokens, plus a shared parse-error log.
package htmltok

import "github.com/npillmayer/gosub/internal/errs"

// TokenType tags a Token's variant (§3).
type TokenType int

const (
	DOCTYPE TokenType = iota
	StartTag
	EndTag
	Comment
	Text
	EOF
)

func (t TokenType) String() string {
	switch t {
	case DOCTYPE:
		return "DOCTYPE"
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Comment:
		return "Comment"
	case Text:
		return "Text"
	case EOF:
		return "EOF"
	}
	return "?"
}

// Attr is one ordered attribute of a start/end tag.
type Attr struct {
	Name  string
	Value string
}

// Token is the tagged variant emitted by next_token() (§3).
type Token struct {
	Type     TokenType
	Location errs.Location

	// DOCTYPE payload.
	Name        string
	PublicID    string
	SystemID    string
	HasPublicID bool
	HasSystemID bool
	ForceQuirks bool

	// StartTag / EndTag payload.
	TagName      string
	Attrs        []Attr
	SelfClosing  bool

	// Comment / Text payload.
	Data string
}

// AttrValue looks up an attribute by name on a Start/EndTag token.
func (t *Token) AttrValue(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
