package htmltree

import "github.com/npillmayer/gosub/internal/dom"

// afeEntry is one slot of the active formatting elements list: either a
// real element or a scope marker (inserted for applet, marquee, object,
// table cells, caption and template, and at fragment-parser setup, per §4.2).
type afeEntry struct {
	marker bool
	id     dom.ID
	tag    string
	attrs  map[string]string // snapshot, for the Noah's Ark clause comparison
}

type afeList struct {
	entries []afeEntry
}

func (l *afeList) pushMarker() {
	l.entries = append(l.entries, afeEntry{marker: true})
}

func (l *afeList) clearToMarker() {
	for len(l.entries) > 0 {
		last := l.entries[len(l.entries)-1]
		l.entries = l.entries[:len(l.entries)-1]
		if last.marker {
			return
		}
	}
}

// push implements step 3 of "insert an HTML element for a token" as it
// pertains to formatting elements, including the Noah's Ark clause: if
// there are already three elements with the same tag, same attributes
// (name and value, any order) since the last marker, the earliest is
// removed.
func (l *afeList) push(id dom.ID, tag string, attrs map[string]string) {
	matches := 0
	firstMatchIdx := -1
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if e.marker {
			break
		}
		if e.tag == tag && sameAttrs(e.attrs, attrs) {
			matches++
			firstMatchIdx = i
		}
	}
	if matches >= 3 {
		l.entries = append(l.entries[:firstMatchIdx], l.entries[firstMatchIdx+1:]...)
	}
	l.entries = append(l.entries, afeEntry{id: id, tag: tag, attrs: attrs})
}

func sameAttrs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func (l *afeList) indexOf(id dom.ID) int {
	for i, e := range l.entries {
		if !e.marker && e.id == id {
			return i
		}
	}
	return -1
}

func (l *afeList) removeAt(i int) {
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

func (l *afeList) insertAt(i int, e afeEntry) {
	l.entries = append(l.entries, afeEntry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
}

// lastMatching returns the last non-marker entry with the given tag, scanning
// back to (but not past) the previous marker; ok is false if none found.
func (l *afeList) lastMatching(tag string) (afeEntry, int, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if e.marker {
			return afeEntry{}, -1, false
		}
		if e.tag == tag {
			return e, i, true
		}
	}
	return afeEntry{}, -1, false
}

// adoptionAgency implements the "adoption agency algorithm" (§4.2), run
// whenever InBody sees an end tag matching a formatting element while the
// tree shape has drifted from a simple nesting (the canonical misnested
// `<b><i>`/`</b>` example).
func (p *Parser) adoptionAgency(subject string) {
	for outer := 0; outer < 8; outer++ {
		formatting, feIdx, ok := p.afe.lastMatching(subject)
		if !ok {
			p.anyOtherEndTagInBody(subject)
			return
		}
		feStackIdx := p.open.indexOf(formatting.id)
		if feStackIdx == -1 {
			p.afe.removeAt(feIdx)
			return
		}
		if !p.open.hasInScope(subject, nil) {
			p.err("adoption-agency-not-in-scope")
			return
		}
		if p.open.current() != formatting.id {
			p.err("adoption-agency-not-current-node")
		}
		furthestBlockIdx := -1
		for i := feStackIdx + 1; i < len(p.open.items); i++ {
			if isSpecialElement(p.arena().Get(p.open.items[i]).TagName) {
				furthestBlockIdx = i
				break
			}
		}
		if furthestBlockIdx == -1 {
			for len(p.open.items)-1 >= feStackIdx {
				p.open.pop()
			}
			p.afe.removeAt(feIdx)
			return
		}
		furthestBlock := p.open.items[furthestBlockIdx]
		commonAncestor := p.open.items[feStackIdx-1]
		bookmark := feIdx

		lastNode := furthestBlock
		node := furthestBlock
		nodeIdx := furthestBlockIdx
		for inner := 0; inner < 8; inner++ {
			nodeIdx--
			if nodeIdx < 0 {
				break
			}
			node = p.open.items[nodeIdx]
			if node == formatting.id {
				break
			}
			nodeAfeIdx := p.afe.indexOf(node)
			if inner >= 3 && nodeAfeIdx != -1 {
				p.afe.removeAt(nodeAfeIdx)
				nodeAfeIdx = -1
			}
			if nodeAfeIdx == -1 {
				p.open.removeElement(node)
				continue
			}
			clone := p.cloneNode(node)
			p.afe.entries[nodeAfeIdx].id = clone
			p.open.replace(nodeIdx, clone)
			node = clone
			if bookmark >= 0 && p.afe.indexOf(lastNode) == bookmark {
				bookmark = nodeAfeIdx
			}
			p.detachFromParent(lastNode)
			p.arena().AppendChild(clone, lastNode)
			lastNode = clone
		}
		p.detachFromParent(lastNode)
		target := p.appropriatePlaceForInsertion(commonAncestor)
		p.arena().AppendChild(target, lastNode)

		feClone := p.cloneNode(formatting.id)
		children := append([]dom.ID(nil), p.arena().Get(furthestBlock).Children...)
		for _, ch := range children {
			p.detachFromParent(ch)
			p.arena().AppendChild(feClone, ch)
		}
		p.arena().AppendChild(furthestBlock, feClone)

		p.afe.removeAt(feIdx)
		insertAt := bookmark
		if insertAt > len(p.afe.entries) {
			insertAt = len(p.afe.entries)
		}
		p.afe.insertAt(insertAt, afeEntry{id: feClone, tag: formatting.tag, attrs: formatting.attrs})

		p.open.removeElement(formatting.id)
		fbIdx := p.open.indexOf(furthestBlock)
		p.open.insertAt(fbIdx+1, feClone)
	}
}

// isSpecialElement is the "special" category used by the furthest-block
// search (§4.2); approximated by the common block/structural tag set.
func isSpecialElement(tag string) bool {
	switch tag {
	case "address", "applet", "area", "article", "aside", "base", "basefont",
		"bgsound", "blockquote", "body", "br", "button", "caption", "center",
		"col", "colgroup", "dd", "details", "dir", "div", "dl", "dt", "embed",
		"fieldset", "figcaption", "figure", "footer", "form", "frame",
		"frameset", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header",
		"hgroup", "hr", "html", "iframe", "img", "input", "li", "link",
		"listing", "main", "marquee", "menu", "meta", "nav", "noembed",
		"noframes", "noscript", "object", "ol", "p", "param", "plaintext",
		"pre", "script", "section", "select", "source", "style", "summary",
		"table", "tbody", "td", "template", "textarea", "tfoot", "th",
		"thead", "title", "tr", "track", "ul", "wbr", "xmp":
		return true
	}
	return false
}
