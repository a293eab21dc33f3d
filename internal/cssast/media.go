package cssast

import (
	"strings"

	"github.com/npillmayer/gosub/internal/csstok"
)

// MediaQualifier is the leading "only"/"not" keyword of a media query.
type MediaQualifier int

const (
	QualifierNone MediaQualifier = iota
	QualifierOnly
	QualifierNot
)

// MediaFeature is one `(name: value)` or range test inside a media query,
// e.g. `(min-width: 600px)`.
type MediaFeature struct {
	Name  string
	Value []ComponentValue // empty for boolean features like `(color)`
}

// MediaQuery is one comma-separated entry of a media query list
// (Media Queries §3).
type MediaQuery struct {
	Qualifier MediaQualifier
	MediaType string // "", "all", "screen", "print", ...
	Features  []MediaFeature
	// Conjunction records whether Features are "and"-joined (always true
	// for the subset of the grammar parsed here; "or" combinators from
	// Media Queries 4 are not supported, matching the at-rule's Non-goal
	// scope).
	Conjunction bool
}

// ParseMediaQueryList parses an @media prelude into its comma-separated
// queries. Unparsable queries become a query that never matches, per the
// "invalid media query list" recovery rule (Media Queries §3.2) rather
// than aborting the whole list.
func ParseMediaQueryList(prelude []ComponentValue) []MediaQuery {
	var out []MediaQuery
	for _, seg := range splitOnComma(prelude) {
		out = append(out, parseOneMediaQuery(trimWhitespace(seg)))
	}
	return out
}

func parseOneMediaQuery(toks []ComponentValue) MediaQuery {
	var q MediaQuery
	q.Conjunction = true
	i := 0
	if i < len(toks) && toks[i].Token != nil && toks[i].Token.Type == csstok.Ident {
		switch strings.ToLower(toks[i].Token.Value) {
		case "only":
			q.Qualifier = QualifierOnly
			i++
		case "not":
			q.Qualifier = QualifierNot
			i++
		}
	}
	toks = trimWhitespace(toks[i:])
	i = 0
	if i < len(toks) && toks[i].Token != nil && toks[i].Token.Type == csstok.Ident {
		q.MediaType = strings.ToLower(toks[i].Token.Value)
		i++
	}
	toks = trimWhitespace(toks[i:])
	for len(toks) > 0 {
		if toks[0].Token != nil && toks[0].Token.Type == csstok.Ident && strings.EqualFold(toks[0].Token.Value, "and") {
			toks = trimWhitespace(toks[1:])
			continue
		}
		if toks[0].Block != nil && toks[0].Block.Open == csstok.LeftParen {
			q.Features = append(q.Features, parseMediaFeature(toks[0].Block))
			toks = trimWhitespace(toks[1:])
			continue
		}
		// Unrecognized trailing junk invalidates this single query.
		return MediaQuery{Qualifier: QualifierNot, MediaType: "all"}
	}
	if q.MediaType == "" && len(q.Features) == 0 && q.Qualifier == QualifierNone {
		q.MediaType = "all"
	}
	return q
}

func parseMediaFeature(block *SimpleBlock) MediaFeature {
	vals := trimWhitespace(block.Value)
	if len(vals) == 0 || vals[0].Token == nil || vals[0].Token.Type != csstok.Ident {
		return MediaFeature{}
	}
	f := MediaFeature{Name: strings.ToLower(vals[0].Token.Value)}
	rest := trimWhitespace(vals[1:])
	if len(rest) == 0 {
		return f
	}
	if rest[0].Token != nil && rest[0].Token.Type == csstok.Colon {
		f.Value = trimWhitespace(rest[1:])
	}
	return f
}
