package htmltree

import (
	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltok"
)

// ParseDocument tokenizes and builds the full DOM for an HTML document.
func ParseDocument(src []byte, log *errs.Log) *dom.Arena {
	stream, err := bytestream.New(src, bytestream.UTF8, bytestream.Certain)
	if err != nil {
		return dom.NewArena()
	}
	tok := htmltok.New(stream, htmltok.Data, log)
	p := New(tok, log)
	return p.Parse()
}

// contentModelFor picks the tokenizer's initial content model for fragment
// parsing, based on the context element (§4.2 "parsing HTML fragments").
func contentModelFor(contextTag string) (htmltok.State, string) {
	switch contextTag {
	case "title", "textarea":
		return htmltok.RCDATAState, contextTag
	case "style", "xmp", "iframe", "noembed", "noframes":
		return htmltok.RAWTEXTState, contextTag
	case "script":
		return htmltok.ScriptDataState, contextTag
	case "noscript":
		return htmltok.RAWTEXTState, contextTag
	case "plaintext":
		return htmltok.PLAINTEXTState, ""
	}
	return htmltok.Data, ""
}

// ParseFragment implements "parsing HTML fragments" (§4.2): tokenization
// and tree construction driven by a synthetic root matching the context
// element's content model, returning the arena the nodes live in and the
// context element's children.
func ParseFragment(src []byte, contextTag string, ns dom.Namespace, quirks dom.QuirksMode, log *errs.Log) (*dom.Arena, []dom.ID) {
	stream, err := bytestream.New(src, bytestream.UTF8, bytestream.Certain)
	if err != nil {
		return nil, nil
	}
	state, lastStartTag := contentModelFor(contextTag)
	tok := htmltok.New(stream, state, log)
	if lastStartTag != "" {
		tok.SwitchState(state, lastStartTag)
	}

	p := New(tok, log)
	p.isFragment = true

	root := p.arena().CreateElement("html", dom.HTML, errs.Location{})
	p.arena().AppendChild(p.arena().Root(), root)
	p.arena().Get(p.arena().Root()).Quirks = quirks
	p.open.push(root)

	ctx := p.arena().CreateElement(contextTag, ns, errs.Location{})
	p.contextElement = ctx

	if contextTag == "form" {
		p.hasForm = true
	}

	p.resetInsertionModeAppropriately()

	p.afe.pushMarker()

	p.Parse()

	return p.arena(), p.arena().Get(root).Children
}
