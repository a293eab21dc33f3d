package htmltok

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gosub/internal/errs"
)

// namedCharRefs is a small but representative subset of the HTML5 named
// character reference table (the full table has ~2200 entries; resolution
// logic below is exact, only the table is abbreviated).
var namedCharRefs = map[string]string{
	"amp;":    "&",
	"amp":     "&",
	"lt;":     "<",
	"lt":      "<",
	"gt;":     ">",
	"gt":      ">",
	"quot;":   "\"",
	"quot":    "\"",
	"apos;":   "'",
	"nbsp;":   " ",
	"copy;":   "©",
	"copy":    "©",
	"reg;":    "®",
	"reg":     "®",
	"hellip;": "…",
	"mdash;":  "—",
	"ndash;":  "–",
	"trade;":  "™",
}

// c1ReplacementTable maps the Windows-1252 C1 control-code misinterpretation
// range (0x80-0x9F) per the HTML5 numeric character reference algorithm.
var c1ReplacementTable = map[rune]rune{
	0x80: 0x20AC, 0x82: 0x201A, 0x83: 0x0192, 0x84: 0x201E,
	0x85: 0x2026, 0x86: 0x2020, 0x87: 0x2021, 0x88: 0x02C6,
	0x89: 0x2030, 0x8A: 0x0160, 0x8B: 0x2039, 0x8C: 0x0152,
	0x8E: 0x017D, 0x91: 0x2018, 0x92: 0x2019, 0x93: 0x201C,
	0x94: 0x201D, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
	0x98: 0x02DC, 0x99: 0x2122, 0x9A: 0x0161, 0x9B: 0x203A,
	0x9C: 0x0153, 0x9E: 0x017E, 0x9F: 0x0178,
}

// resolveCharRef consumes a character reference beginning right after '&'
// and appends the resolved text (or the literal reinsertion on failure)
// into the active Text accumulator.
func (t *Tokenizer) resolveCharRef() {
	t.resolveCharRefInto(&t.textBuf)
}

func (t *Tokenizer) resolveCharRefInto(dst *strings.Builder) {
	loc := t.in.Pos()
	r, ok := t.in.Lookahead(0)
	if !ok || (!isAlpha(r) && r != '#') {
		dst.WriteByte('&')
		return
	}
	if r == '#' {
		t.resolveNumericCharRef(dst, loc)
		return
	}
	t.resolveNamedCharRef(dst, loc)
}

func (t *Tokenizer) resolveNamedCharRef(dst *strings.Builder, loc errs.Location) {
	// Greedy longest-match against the table; HTML5 requires consuming the
	// longest known name, but the abbreviated table here always matches
	// the exact trailing-semicolon form when present.
	var candidate strings.Builder
	matched := ""
	matchedConsumed := 0
	for i := 0; i < 32; i++ {
		r, ok := t.in.Lookahead(i)
		if !ok || !(isAlpha(r) || isDigit(r) || r == ';') {
			break
		}
		candidate.WriteRune(r)
		if repl, ok := namedCharRefs[candidate.String()]; ok {
			matched = repl
			matchedConsumed = i + 1
		}
		if r == ';' {
			break
		}
	}
	if matched == "" {
		t.err(errs.CodeUnknownNamedCharRef, "")
		dst.WriteByte('&')
		return
	}
	for i := 0; i < matchedConsumed; i++ {
		t.in.Read()
	}
	if !strings.HasSuffix(candidate.String()[:matchedConsumed], ";") {
		t.err(errs.CodeMissingSemicolonCharRef, "")
	}
	dst.WriteString(matched)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (t *Tokenizer) resolveNumericCharRef(dst *strings.Builder, loc errs.Location) {
	t.in.Read() // consume '#'
	hex := false
	if r, ok := t.in.Lookahead(0); ok && (r == 'x' || r == 'X') {
		t.in.Read()
		hex = true
	}
	var digits strings.Builder
	for {
		r, ok := t.in.Lookahead(0)
		if !ok {
			break
		}
		if hex && isHexDigit(r) {
			digits.WriteRune(r)
			t.in.Read()
		} else if !hex && isDigit(r) {
			digits.WriteRune(r)
			t.in.Read()
		} else {
			break
		}
	}
	if digits.Len() == 0 {
		t.err(errs.CodeUnknownNamedCharRef, "absence-of-digits-in-numeric-character-reference")
		dst.WriteString("&#")
		if hex {
			dst.WriteByte('x')
		}
		return
	}
	if r, ok := t.in.Lookahead(0); ok && r == ';' {
		t.in.Read()
	} else {
		t.err(errs.CodeMissingSemicolonCharRef, "")
	}
	base := 10
	if hex {
		base = 16
	}
	v, err := strconv.ParseUint(digits.String(), base, 32)
	if err != nil {
		v = 0xFFFD
	}
	cp := rune(v)
	switch {
	case cp == 0:
		t.err(errs.CodeNullCharRef, "")
		cp = 0xFFFD
	case cp > 0x10FFFF:
		t.err(errs.CodeCharRefOutsideUnicode, "")
		cp = 0xFFFD
	case cp >= 0xD800 && cp <= 0xDFFF:
		t.err(errs.CodeSurrogateCharRef, "")
		cp = 0xFFFD
	default:
		if repl, ok := c1ReplacementTable[cp]; ok {
			t.err(errs.CodeControlCharRef, "")
			cp = repl
		} else if isNoncharacter(cp) || isControlOtherThanWhitespace(cp) {
			t.err(errs.CodeControlCharRef, "")
		}
	}
	dst.WriteRune(cp)
}

func isNoncharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	switch r & 0xFFFE {
	case 0xFFFE:
		return true
	}
	return false
}

func isControlOtherThanWhitespace(r rune) bool {
	if r >= 0x0001 && r <= 0x0008 {
		return true
	}
	if r == 0x000B {
		return true
	}
	if r >= 0x000E && r <= 0x001F {
		return true
	}
	if r >= 0x007F && r <= 0x009F {
		switch r {
		case 0x0080, 0x0081, 0x008D, 0x008F, 0x0090, 0x009D:
			return true
		}
	}
	return false
}
