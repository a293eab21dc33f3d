package cssast

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
)

// ParseAnPlusB parses the An+B micro-syntax used by :nth-child() and
// friends (Selectors §5.2 Appendix B), from the already-tokenized function
// argument list. Whitespace tokens are tolerated between the sign, the
// coefficient and the constant per the grammar's explicit allowances.
//
// On a malformed input, a CSS parse error is recorded and (0, 0) is
// returned with ok=false; callers must not silently fall back to a
// placeholder match-nothing constant.
func ParseAnPlusB(tokens []csstok.Token, log *errs.Log) (a, b int, ok bool) {
	toks := stripWS(tokens)
	if len(toks) == 0 {
		return badAnB(log, errs.Location{})
	}

	i := 0
	t := toks[i]
	negativeBShortcut := false

	switch {
	case t.Type == csstok.Number && t.IntLike:
		return int(t.NumValue), 0, true

	case t.Type == csstok.Dimension && t.IntLike && strings.EqualFold(t.Unit, "n"):
		a = int(t.NumValue)
		i++

	case t.Type == csstok.Dimension && t.IntLike && strings.EqualFold(t.Unit, "n-"):
		a = int(t.NumValue)
		i++
		negativeBShortcut = true

	case t.Type == csstok.Dimension && t.IntLike && hasNDashDigits(t.Unit):
		av := int(t.NumValue)
		bv, perr := parseNDashDigits(t.Unit)
		if perr {
			return badAnB(log, t.Location)
		}
		return av, bv, true

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "odd"):
		return 2, 1, true

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "even"):
		return 2, 0, true

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "n"):
		a = 1
		i++

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "-n"):
		a = -1
		i++

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "n-"):
		a = 1
		i++
		negativeBShortcut = true

	case t.Type == csstok.Ident && strings.EqualFold(t.Value, "-n-"):
		a = -1
		i++
		negativeBShortcut = true

	case t.Type == csstok.Ident && hasNDashDigits(strings.TrimPrefix(t.Value, "-")):
		sign := 1
		name := t.Value
		if strings.HasPrefix(name, "-") {
			sign = -1
			name = name[1:]
		}
		bv, perr := parseNDashDigits(name)
		if perr {
			return badAnB(log, t.Location)
		}
		return sign, bv, true

	default:
		return badAnB(log, t.Location)
	}

	rest := stripWS(toks[i:])

	if negativeBShortcut {
		if len(rest) == 0 {
			return badAnB(log, t.Location)
		}
		n := rest[0]
		if n.Type != csstok.Number || !n.IntLike || n.NumValue < 0 {
			return badAnB(log, n.Location)
		}
		if len(stripWS(rest[1:])) != 0 {
			return badAnB(log, n.Location)
		}
		return a, -int(n.NumValue), true
	}

	if len(rest) == 0 {
		return a, 0, true
	}

	sign := 0
	s := rest[0]
	if s.Type == csstok.Delim && s.Value == "+" {
		sign = 1
	} else if s.Type == csstok.Delim && s.Value == "-" {
		sign = -1
	} else if s.Type == csstok.Number && s.IntLike {
		// "<dimension><signed-integer>" form: the sign immediately precedes
		// a digit, so the tokenizer merges them into one signed number, e.g.
		// "2n+1" or "2n -1". ("2n-1" arrives as one dimension with unit
		// "n-1" and is handled above.)
		if len(stripWS(rest[1:])) != 0 {
			return badAnB(log, s.Location)
		}
		return a, int(s.NumValue), true
	} else {
		return badAnB(log, s.Location)
	}

	numToks := stripWS(rest[1:])
	if len(numToks) == 0 {
		return badAnB(log, s.Location)
	}
	n := numToks[0]
	if n.Type != csstok.Number || !n.IntLike || n.NumValue < 0 {
		return badAnB(log, n.Location)
	}
	if len(stripWS(numToks[1:])) != 0 {
		return badAnB(log, n.Location)
	}
	return a, sign * int(n.NumValue), true
}

// badAnB records the malformed-An+B parse error. Per the redesign decision
// recorded in DESIGN.md, an unparsable An+B falls back to b=0 (a matcher
// that selects nothing beyond a=0's own degenerate case) rather than any
// placeholder string value.
func badAnB(log *errs.Log, loc errs.Location) (int, int, bool) {
	if log != nil {
		log.Add(errs.CodeCSSBadAnPlusB, loc, "malformed An+B expression")
	}
	return 0, 0, false
}

// stripWS drops Whitespace tokens, and the EOF token a full tokenizer run
// ends with, so both function arguments and standalone token lists parse.
func stripWS(toks []csstok.Token) []csstok.Token {
	out := make([]csstok.Token, 0, len(toks))
	for _, t := range toks {
		if t.Type != csstok.Whitespace && t.Type != csstok.EOF {
			out = append(out, t)
		}
	}
	return out
}

// hasNDashDigits reports whether unit looks like "n-123".
func hasNDashDigits(unit string) bool {
	if !strings.HasPrefix(strings.ToLower(unit), "n-") {
		return false
	}
	digits := unit[2:]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseNDashDigits(unit string) (b int, parseErr bool) {
	digits := unit[2:]
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, true
	}
	return -v, false
}
