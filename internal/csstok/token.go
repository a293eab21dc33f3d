// Package csstok implements the CSS Syntax Level 3 tokenizer (§4.3):
// Ident, AtKeyword, Hash, String, Url, Number, Percentage, Dimension,
// Function and delimiter tokens, plus comment stripping and the CDO/CDC
// markers inherited from CSS's SGML-compatibility history.
package csstok

import "github.com/npillmayer/gosub/internal/errs"

// Type tags a Token's variant.
type Type int

const (
	Ident Type = iota
	Function
	AtKeyword
	Hash
	String
	BadString
	URL
	BadURL
	Delim
	Number
	Percentage
	Dimension
	Whitespace
	CDO
	CDC
	Colon
	Semicolon
	Comma
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	EOF
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "Ident"
	case Function:
		return "Function"
	case AtKeyword:
		return "AtKeyword"
	case Hash:
		return "Hash"
	case String:
		return "String"
	case BadString:
		return "BadString"
	case URL:
		return "URL"
	case BadURL:
		return "BadURL"
	case Delim:
		return "Delim"
	case Number:
		return "Number"
	case Percentage:
		return "Percentage"
	case Dimension:
		return "Dimension"
	case Whitespace:
		return "Whitespace"
	case CDO:
		return "CDO"
	case CDC:
		return "CDC"
	case Colon:
		return "Colon"
	case Semicolon:
		return "Semicolon"
	case Comma:
		return "Comma"
	case LeftBracket:
		return "LeftBracket"
	case RightBracket:
		return "RightBracket"
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	case LeftBrace:
		return "LeftBrace"
	case RightBrace:
		return "RightBrace"
	case EOF:
		return "EOF"
	}
	return "?"
}

// HashType distinguishes an "id"-flavored hash token (valid identifier
// body) from an "unrestricted" one.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// Token is one lexical unit of a CSS source (§4.3).
type Token struct {
	Type     Type
	Location errs.Location

	Value  string // Ident/Function/AtKeyword/Hash/String/URL/Delim text
	Hash   HashType

	// Number/Percentage/Dimension payload.
	NumValue float64
	IntLike  bool
	Unit     string
}
