package cssast

import (
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.cssast")
}

// Parser consumes a flat token slice into a Stylesheet, per the CSS Syntax
// Level 3 "parse a stylesheet" entry point (§4.3 and its grammar productions
// consume-a-list-of-rules / consume-a-qualified-rule / consume-an-at-rule /
// consume-a-simple-block / consume-a-component-value).
type Parser struct {
	toks []csstok.Token
	pos  int
	log  *errs.Log

	// IgnoreErrors, when set, suppresses error-log entries for malformed
	// constructs that the grammar can otherwise recover from (stray
	// closing tokens, unmatched blocks). The teacher's parsers default to
	// strict reporting; callers that want best-effort parsing of
	// real-world stylesheets set this.
	IgnoreErrors bool
}

// New creates a Parser over the given token stream.
func New(toks []csstok.Token, log *errs.Log) *Parser {
	return &Parser{toks: toks, log: log}
}

// Parse consumes the full top-level rule list (§5.3.1 "parse a stylesheet").
func (p *Parser) Parse() *Stylesheet {
	return &Stylesheet{Rules: p.consumeRuleList(true)}
}

// ParseRuleList consumes a rule list that is not a top-level stylesheet
// (e.g. the body of an @media block), per §5.3.2.
func (p *Parser) ParseRuleList() []Rule {
	return p.consumeRuleList(false)
}

// ConsumeComponentValues consumes the parser's entire remaining token
// stream as a component-value list, e.g. a selector list or a
// declaration's value, per §5.3.9.
func (p *Parser) ConsumeComponentValues() []ComponentValue {
	var out []ComponentValue
	for p.pos < len(p.toks) {
		out = append(out, p.consumeComponentValue())
	}
	return out
}

// ParseComponentValues tokenizes-agnostic convenience: wraps New(toks,
// log).ConsumeComponentValues() for callers that only need the
// component-value list (selector preludes, standalone declaration values)
// and not a full rule parse.
func ParseComponentValues(toks []csstok.Token, log *errs.Log) []ComponentValue {
	return New(toks, log).ConsumeComponentValues()
}

func (p *Parser) peek() csstok.Token {
	if p.pos >= len(p.toks) {
		return csstok.Token{Type: csstok.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() csstok.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) errf(detail string) {
	tracer().Debugf("cssast: %s at %s", detail, p.peek().Location)
	if p.IgnoreErrors || p.log == nil {
		return
	}
	p.log.Add(errs.CodeCSSExpectedGot, p.peek().Location, detail)
}

func (p *Parser) consumeRuleList(topLevel bool) []Rule {
	var rules []Rule
	for {
		t := p.peek()
		switch t.Type {
		case csstok.EOF:
			return rules
		case csstok.Whitespace:
			p.next()
		case csstok.CDO, csstok.CDC:
			if topLevel {
				p.next()
				continue
			}
			if r, ok := p.consumeQualifiedRule(); ok {
				rules = append(rules, r)
			}
		case csstok.AtKeyword:
			rules = append(rules, p.consumeAtRule())
		default:
			if r, ok := p.consumeQualifiedRule(); ok {
				rules = append(rules, r)
			}
		}
	}
}

func (p *Parser) consumeAtRule() Rule {
	start := p.peek()
	name := start.Value
	p.next()
	r := Rule{Kind: AtRuleKind, Name: name, Location: start.Location}
	for {
		t := p.peek()
		switch t.Type {
		case csstok.Semicolon:
			p.next()
			return r
		case csstok.EOF:
			p.errf("at-rule ended without a block or semicolon")
			return r
		case csstok.LeftBrace:
			r.Block = p.consumeSimpleBlock()
			return r
		default:
			r.Prelude = append(r.Prelude, p.consumeComponentValue())
		}
	}
}

func (p *Parser) consumeQualifiedRule() (Rule, bool) {
	start := p.peek()
	r := Rule{Kind: QualifiedRuleKind, Location: start.Location}
	for {
		t := p.peek()
		switch t.Type {
		case csstok.EOF:
			p.errf("qualified rule ended without a block")
			return r, false
		case csstok.LeftBrace:
			r.Block = p.consumeSimpleBlock()
			return r, true
		default:
			r.Prelude = append(r.Prelude, p.consumeComponentValue())
		}
	}
}

func matchingClose(open csstok.Type) csstok.Type {
	switch open {
	case csstok.LeftBrace:
		return csstok.RightBrace
	case csstok.LeftBracket:
		return csstok.RightBracket
	default:
		return csstok.RightParen
	}
}

func (p *Parser) consumeSimpleBlock() *SimpleBlock {
	open := p.next().Type
	close := matchingClose(open)
	block := &SimpleBlock{Open: open}
	for {
		t := p.peek()
		if t.Type == close {
			p.next()
			return block
		}
		if t.Type == csstok.EOF {
			p.errf("unterminated block")
			return block
		}
		block.Value = append(block.Value, p.consumeComponentValue())
	}
}

func (p *Parser) consumeComponentValue() ComponentValue {
	t := p.peek()
	switch t.Type {
	case csstok.LeftBrace, csstok.LeftBracket, csstok.LeftParen:
		return ComponentValue{Block: p.consumeSimpleBlock()}
	case csstok.Function:
		return ComponentValue{Function: p.consumeFunction()}
	default:
		p.next()
		tok := t
		return ComponentValue{Token: &tok}
	}
}

func (p *Parser) consumeFunction() *Function {
	name := p.next().Value
	fn := &Function{Name: name}
	for {
		t := p.peek()
		switch t.Type {
		case csstok.RightParen:
			p.next()
			return fn
		case csstok.EOF:
			p.errf("unterminated function")
			return fn
		default:
			fn.Value = append(fn.Value, p.consumeComponentValue())
		}
	}
}

// StripWhitespace filters out Whitespace component values, a convenience
// used by prelude/declaration-value consumers that don't care about
// insignificant whitespace.
func StripWhitespace(vals []ComponentValue) []ComponentValue {
	out := make([]ComponentValue, 0, len(vals))
	for _, v := range vals {
		if v.Token != nil && v.Token.Type == csstok.Whitespace {
			continue
		}
		out = append(out, v)
	}
	return out
}
