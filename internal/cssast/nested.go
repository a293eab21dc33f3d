package cssast

import (
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
)

// ParseNestedRuleList interprets an already-parsed component-value list
// (typically an at-rule's block contents, e.g. the body of `@media`) as a
// rule list, per §5.3.2. This differs from (*Parser).ParseRuleList only in
// that its input has already passed through one round of component-value
// consumption, so blocks and functions arrive pre-formed instead of as raw
// bracket/paren tokens.
func ParseNestedRuleList(vals []ComponentValue, log *errs.Log) []Rule {
	var rules []Rule
	i := 0
	for i < len(vals) {
		v := vals[i]
		switch {
		case isWhitespace(v):
			i++
		case v.Token != nil && v.Token.Type == csstok.AtKeyword:
			r, n := consumeNestedAtRule(vals[i:], log)
			rules = append(rules, r)
			i += n
		default:
			r, n, ok := consumeNestedQualifiedRule(vals[i:], log)
			i += n
			if ok {
				rules = append(rules, r)
			}
		}
	}
	return rules
}

func consumeNestedAtRule(vals []ComponentValue, log *errs.Log) (Rule, int) {
	name := vals[0].Token.Value
	r := Rule{Kind: AtRuleKind, Name: name, Location: vals[0].Token.Location}
	i := 1
	for i < len(vals) {
		v := vals[i]
		if v.Token != nil && v.Token.Type == csstok.Semicolon {
			return r, i + 1
		}
		if v.Block != nil && v.Block.Open == csstok.LeftBrace {
			r.Block = v.Block
			return r, i + 1
		}
		r.Prelude = append(r.Prelude, v)
		i++
	}
	return r, i
}

func consumeNestedQualifiedRule(vals []ComponentValue, log *errs.Log) (Rule, int, bool) {
	r := Rule{Kind: QualifiedRuleKind}
	if len(vals) > 0 && vals[0].Token != nil {
		r.Location = vals[0].Token.Location
	}
	i := 0
	for i < len(vals) {
		v := vals[i]
		if v.Block != nil && v.Block.Open == csstok.LeftBrace {
			r.Block = v.Block
			return r, i + 1, true
		}
		r.Prelude = append(r.Prelude, v)
		i++
	}
	if log != nil {
		log.Add(errs.CodeCSSExpectedGot, r.Location, "qualified rule ended without a block")
	}
	return r, i, false
}
