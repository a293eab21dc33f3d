package cssast

import (
	"strings"

	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
)

// ParseDeclarationList consumes a simple block's component values as a
// declaration list (§5.3.8 "parse a list of declarations"), used for style
// rule bodies and most at-rule bodies (e.g. @font-face, @page).
func ParseDeclarationList(block *SimpleBlock, log *errs.Log) []Declaration {
	if block == nil {
		return nil
	}
	var decls []Declaration
	vals := block.Value
	for len(vals) > 0 {
		// Skip leading whitespace/semicolons between declarations.
		if isWhitespace(vals[0]) || isDelimType(vals[0], csstok.Semicolon) {
			vals = vals[1:]
			continue
		}
		end := indexOfType(vals, csstok.Semicolon)
		var chunk []ComponentValue
		if end < 0 {
			chunk, vals = vals, nil
		} else {
			chunk, vals = vals[:end], vals[end+1:]
		}
		if d, ok := parseOneDeclaration(chunk, log); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

func isWhitespace(v ComponentValue) bool {
	return v.Token != nil && v.Token.Type == csstok.Whitespace
}

func isDelimType(v ComponentValue, t csstok.Type) bool {
	return v.Token != nil && v.Token.Type == t
}

func indexOfType(vals []ComponentValue, t csstok.Type) int {
	for i, v := range vals {
		if isDelimType(v, t) {
			return i
		}
	}
	return -1
}

func parseOneDeclaration(chunk []ComponentValue, log *errs.Log) (Declaration, bool) {
	chunk = trimWhitespace(chunk)
	if len(chunk) == 0 {
		return Declaration{}, false
	}
	if chunk[0].Token == nil || chunk[0].Token.Type != csstok.Ident {
		if log != nil {
			loc := errs.Location{}
			if chunk[0].Token != nil {
				loc = chunk[0].Token.Location
			}
			log.Add(errs.CodeCSSExpectedGot, loc, "declaration does not start with an identifier")
		}
		return Declaration{}, false
	}
	d := Declaration{Name: strings.ToLower(chunk[0].Token.Value), Location: chunk[0].Token.Location}
	rest := trimWhitespace(chunk[1:])
	if len(rest) == 0 || !isDelimType(rest[0], csstok.Colon) {
		if log != nil {
			log.Add(errs.CodeCSSExpectedGot, d.Location, "declaration missing ':'")
		}
		return Declaration{}, false
	}
	rest = trimWhitespace(rest[1:])
	rest, d.Important = stripImportant(rest)
	d.Value = rest
	return d, true
}

func trimWhitespace(vals []ComponentValue) []ComponentValue {
	i, j := 0, len(vals)
	for i < j && isWhitespace(vals[i]) {
		i++
	}
	for j > i && isWhitespace(vals[j-1]) {
		j--
	}
	return vals[i:j]
}

// stripImportant removes a trailing "! important" (case-insensitive,
// whitespace-tolerant per §3.2) marker, reporting whether it was found.
func stripImportant(vals []ComponentValue) ([]ComponentValue, bool) {
	v := trimWhitespace(vals)
	if len(v) < 2 {
		return vals, false
	}
	last := v[len(v)-1]
	if last.Token == nil || last.Token.Type != csstok.Ident || !strings.EqualFold(last.Token.Value, "important") {
		return vals, false
	}
	prev := v[len(v)-2]
	if prev.Token == nil || prev.Token.Type != csstok.Delim || prev.Token.Value != "!" {
		return vals, false
	}
	return trimWhitespace(v[:len(v)-2]), true
}
