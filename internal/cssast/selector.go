package cssast

import (
	"strings"

	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
)

// Combinator joins two compound selectors inside a complex selector
// (Selectors §8).
type Combinator int

const (
	Descendant Combinator = iota
	Child                 // >
	NextSibling           // +
	SubsequentSibling     // ~
)

// SimpleKind tags a SimpleSelector's variant.
type SimpleKind int

const (
	UniversalSelector SimpleKind = iota
	TypeSelector
	IDSelector
	ClassSelector
	AttrSelector
	PseudoClassSelector
	PseudoElementSelector
)

// AttrMatcher is an attribute-selector comparison operator. The bare "="
// plus the five substring/prefix/suffix/whitespace-list/hyphen-list
// operators defined by Selectors §6.3.3 are all accepted here — a prior
// implementation only recognized "=" and "~=", silently treating
// "^=", "$=", "*=" and "|=" as parse errors.
type AttrMatcher string

const (
	AttrExists     AttrMatcher = ""
	AttrEquals     AttrMatcher = "="
	AttrIncludes   AttrMatcher = "~="
	AttrDashMatch  AttrMatcher = "|="
	AttrPrefix     AttrMatcher = "^="
	AttrSuffix     AttrMatcher = "$="
	AttrSubstring  AttrMatcher = "*="
)

// SimpleSelector is one non-combinator test within a compound selector.
type SimpleSelector struct {
	Kind     SimpleKind
	Name     string // tag/id/class/attribute/pseudo name, lowercased where case-insensitive
	NS       string // namespace prefix for Type/Attr selectors, "" if none/any

	AttrOp         AttrMatcher
	AttrValue      string
	AttrCaseFold   bool // `[attr=val i]`

	PseudoArgs []csstok.Token // raw argument tokens for functional pseudo-classes, e.g. :nth-child(2n+1)

	Location errs.Location
}

// CompoundSelector is a sequence of simple selectors with no combinator
// between them (e.g. `a.foo#bar[href]`).
type CompoundSelector struct {
	Simple []SimpleSelector
}

// ComplexSelector is a chain of compound selectors joined by combinators.
// len(Combinators) == len(Compounds)-1.
type ComplexSelector struct {
	Compounds   []CompoundSelector
	Combinators []Combinator
}

// ParseSelectorList splits prelude on top-level commas and parses each
// segment as a ComplexSelector (§5.1 forgiving-selector-list, minus the
// "forgiving" part: a malformed selector in the list is dropped with an
// error rather than silently matching nothing).
func ParseSelectorList(prelude []ComponentValue, log *errs.Log) []ComplexSelector {
	var out []ComplexSelector
	for _, seg := range splitOnComma(prelude) {
		seg = trimWhitespace(seg)
		if len(seg) == 0 {
			continue
		}
		if cs, ok := parseComplexSelector(seg, log); ok {
			out = append(out, cs)
		}
	}
	return out
}

func splitOnComma(vals []ComponentValue) [][]ComponentValue {
	var segs [][]ComponentValue
	start := 0
	for i, v := range vals {
		if isDelimType(v, csstok.Comma) {
			segs = append(segs, vals[start:i])
			start = i + 1
		}
	}
	segs = append(segs, vals[start:])
	return segs
}

func parseComplexSelector(toks []ComponentValue, log *errs.Log) (ComplexSelector, bool) {
	var cs ComplexSelector
	i := 0
	for i < len(toks) {
		compound, n, ok := parseCompoundSelector(toks[i:], log)
		if !ok {
			return ComplexSelector{}, false
		}
		cs.Compounds = append(cs.Compounds, compound)
		i += n
		// Skip whitespace, recording it as a potential descendant combinator.
		sawWS := false
		for i < len(toks) && isWhitespace(toks[i]) {
			sawWS = true
			i++
		}
		if i >= len(toks) {
			break
		}
		if comb, n2, ok := parseExplicitCombinator(toks[i:]); ok {
			cs.Combinators = append(cs.Combinators, comb)
			i += n2
			for i < len(toks) && isWhitespace(toks[i]) {
				i++
			}
			continue
		}
		if sawWS {
			cs.Combinators = append(cs.Combinators, Descendant)
			continue
		}
		break
	}
	if len(cs.Compounds) == 0 {
		return ComplexSelector{}, false
	}
	return cs, true
}

func parseExplicitCombinator(toks []ComponentValue) (Combinator, int, bool) {
	if len(toks) == 0 || toks[0].Token == nil || toks[0].Token.Type != csstok.Delim {
		return 0, 0, false
	}
	switch toks[0].Token.Value {
	case ">":
		return Child, 1, true
	case "+":
		return NextSibling, 1, true
	case "~":
		return SubsequentSibling, 1, true
	}
	return 0, 0, false
}

// parseCompoundSelector consumes simple selectors until whitespace, a
// combinator, a comma, or the end of input; it returns how many
// ComponentValues it consumed.
func parseCompoundSelector(toks []ComponentValue, log *errs.Log) (CompoundSelector, int, bool) {
	var cs CompoundSelector
	i := 0
	for i < len(toks) {
		v := toks[i]
		if isWhitespace(v) || isDelimType(v, csstok.Comma) {
			break
		}
		if t := v.Token; t != nil && t.Type == csstok.Delim && (t.Value == ">" || t.Value == "+" || t.Value == "~") {
			break
		}

		switch {
		case v.Token != nil && v.Token.Type == csstok.Delim && v.Token.Value == "*":
			cs.Simple = append(cs.Simple, SimpleSelector{Kind: UniversalSelector, Location: v.Token.Location})
			i++
		case v.Token != nil && v.Token.Type == csstok.Ident:
			cs.Simple = append(cs.Simple, SimpleSelector{Kind: TypeSelector, Name: strings.ToLower(v.Token.Value), Location: v.Token.Location})
			i++
		case v.Token != nil && v.Token.Type == csstok.Hash:
			cs.Simple = append(cs.Simple, SimpleSelector{Kind: IDSelector, Name: v.Token.Value, Location: v.Token.Location})
			i++
		case v.Token != nil && v.Token.Type == csstok.Delim && v.Token.Value == ".":
			if i+1 >= len(toks) || toks[i+1].Token == nil || toks[i+1].Token.Type != csstok.Ident {
				if log != nil {
					log.Add(errs.CodeCSSExpectedGot, v.Token.Location, "expected class name after '.'")
				}
				return CompoundSelector{}, 0, false
			}
			cs.Simple = append(cs.Simple, SimpleSelector{Kind: ClassSelector, Name: toks[i+1].Token.Value, Location: v.Token.Location})
			i += 2
		case v.Block != nil && v.Block.Open == csstok.LeftBracket:
			sel, ok := parseAttrSelector(v.Block, log)
			if !ok {
				return CompoundSelector{}, 0, false
			}
			cs.Simple = append(cs.Simple, sel)
			i++
		case v.Token != nil && v.Token.Type == csstok.Colon:
			sel, n, ok := parsePseudo(toks[i:], log)
			if !ok {
				return CompoundSelector{}, 0, false
			}
			cs.Simple = append(cs.Simple, sel)
			i += n
		default:
			if log != nil {
				loc := errs.Location{}
				if v.Token != nil {
					loc = v.Token.Location
				}
				log.Add(errs.CodeCSSExpectedGot, loc, "unexpected token in selector")
			}
			return CompoundSelector{}, 0, false
		}
	}
	if len(cs.Simple) == 0 {
		return CompoundSelector{}, 0, false
	}
	return cs, i, true
}

func parseAttrSelector(block *SimpleBlock, log *errs.Log) (SimpleSelector, bool) {
	vals := trimWhitespace(block.Value)
	if len(vals) == 0 || vals[0].Token == nil || vals[0].Token.Type != csstok.Ident {
		if log != nil {
			log.Add(errs.CodeCSSExpectedGot, errs.Location{}, "attribute selector missing name")
		}
		return SimpleSelector{}, false
	}
	sel := SimpleSelector{Kind: AttrSelector, Name: vals[0].Token.Value, Location: vals[0].Token.Location}
	rest := trimWhitespace(vals[1:])
	if len(rest) == 0 {
		return sel, true
	}

	op, n, ok := parseAttrOperator(rest, log)
	if !ok {
		return SimpleSelector{}, false
	}
	sel.AttrOp = op
	rest = trimWhitespace(rest[n:])
	if len(rest) == 0 || rest[0].Token == nil {
		if log != nil {
			log.Add(errs.CodeCSSBadAttrMatcher, sel.Location, "attribute selector missing value")
		}
		return SimpleSelector{}, false
	}
	switch rest[0].Token.Type {
	case csstok.String, csstok.Ident:
		sel.AttrValue = rest[0].Token.Value
	default:
		if log != nil {
			log.Add(errs.CodeCSSBadAttrMatcher, sel.Location, "attribute selector value must be a string or identifier")
		}
		return SimpleSelector{}, false
	}
	rest = trimWhitespace(rest[1:])
	if len(rest) == 1 && rest[0].Token != nil && rest[0].Token.Type == csstok.Ident && strings.EqualFold(rest[0].Token.Value, "i") {
		sel.AttrCaseFold = true
	}
	return sel, true
}

// parseAttrOperator recognizes "=", "~=", "|=", "^=", "$=", "*=".
func parseAttrOperator(vals []ComponentValue, log *errs.Log) (AttrMatcher, int, bool) {
	if len(vals) == 0 || vals[0].Token == nil {
		return "", 0, false
	}
	t := vals[0].Token
	if t.Type == csstok.Delim && t.Value == "=" {
		return AttrEquals, 1, true
	}
	if t.Type != csstok.Delim {
		return "", 0, false
	}
	if len(vals) < 2 || vals[1].Token == nil || vals[1].Token.Type != csstok.Delim || vals[1].Token.Value != "=" {
		if log != nil {
			log.Add(errs.CodeCSSBadAttrMatcher, t.Location, "unrecognized attribute matcher")
		}
		return "", 0, false
	}
	switch t.Value {
	case "~":
		return AttrIncludes, 2, true
	case "|":
		return AttrDashMatch, 2, true
	case "^":
		return AttrPrefix, 2, true
	case "$":
		return AttrSuffix, 2, true
	case "*":
		return AttrSubstring, 2, true
	}
	if log != nil {
		log.Add(errs.CodeCSSBadAttrMatcher, t.Location, "unrecognized attribute matcher")
	}
	return "", 0, false
}

// parsePseudo consumes `:name`, `::name` or `:name(args)`, returning how
// many ComponentValues were consumed.
func parsePseudo(toks []ComponentValue, log *errs.Log) (SimpleSelector, int, bool) {
	i := 0
	loc := toks[0].Token.Location
	kind := PseudoClassSelector
	i++ // leading ':'
	if i < len(toks) && toks[i].Token != nil && toks[i].Token.Type == csstok.Colon {
		kind = PseudoElementSelector
		i++
	}
	if i >= len(toks) {
		if log != nil {
			log.Add(errs.CodeCSSExpectedGot, loc, "expected pseudo-class/element name")
		}
		return SimpleSelector{}, 0, false
	}
	switch {
	case toks[i].Token != nil && toks[i].Token.Type == csstok.Ident:
		sel := SimpleSelector{Kind: kind, Name: strings.ToLower(toks[i].Token.Value), Location: loc}
		return sel, i + 1, true
	case toks[i].Function != nil:
		fn := toks[i].Function
		sel := SimpleSelector{Kind: kind, Name: strings.ToLower(fn.Name), Location: loc}
		for _, v := range fn.Value {
			if v.Token != nil {
				sel.PseudoArgs = append(sel.PseudoArgs, *v.Token)
			}
		}
		return sel, i + 1, true
	}
	if log != nil {
		log.Add(errs.CodeCSSExpectedGot, loc, "expected pseudo-class/element name")
	}
	return SimpleSelector{}, 0, false
}
