package layout

import (
	"strings"

	"github.com/npillmayer/gosub/internal/rendertree"
)

// layoutInlineRun lays out a run of consecutive inline-level render nodes
// (text and inline/inline-block elements) as an inline formatting context:
// line boxes with soft-wrap at the container's max advance (§4.6). It
// creates one layout Element per run, anchored at (originX, originY), and
// returns the run's total height.
func layoutInlineRun(tree *Tree, parentID int, nodes []*rendertree.Node, originX, originY, maxWidth float64, fm FontManager) float64 {
	parent := tree.Get(parentID)
	elem := &Element{ID: len(tree.Elements), DOMID: parent.DOMID, Parent: parentID, Display: Inline, Context: TextContext}
	tree.Elements = append(tree.Elements, elem)
	parent.Children = append(parent.Children, elem.ID)

	family, size, lineHeight := inheritedFont(parent, fm)

	x, y := originX, originY
	lineH := lineHeight
	maxLineW := 0.0

	for _, n := range nodes {
		text := n.Text
		if n.Kind != rendertree.TextNode {
			text = "" // inline element nodes contribute no runs at this depth
		}
		for _, word := range splitKeepSpace(text) {
			adv := fm.Advance(word, family, size)
			if x+adv > originX+maxWidth && x > originX {
				y += lineH
				x = originX
			}
			elem.Runs = append(elem.Runs, TextRun{Text: word, X: x, Y: y, Advance: adv})
			x += adv
			if x-originX > maxLineW {
				maxLineW = x - originX
			}
		}
	}

	h := (y - originY) + lineH
	elem.Content = Rect{X: originX, Y: originY, W: maxLineW, H: h}
	elem.Padding, elem.Border, elem.Margin = elem.Content, elem.Content, elem.Content
	return h
}

func inheritedFont(parent *Element, fm FontManager) (family string, size, lineHeight float64) {
	family, size = "sans-serif", 16
	if parent.Style != nil {
		if v, ok := parent.Style["font-family"]; ok && v.Keyword != "" {
			family = v.Keyword
		}
		if v, ok := parent.Style["font-size"]; ok {
			if v.Number > 0 {
				size = v.Number
			}
		}
	}
	lineHeight = fm.LineHeight(family, size)
	if parent.Style != nil {
		if v, ok := parent.Style["line-height"]; ok && v.Number > 0 {
			lineHeight = v.Number
		}
	}
	return
}

// splitKeepSpace breaks text into word tokens, folding runs of whitespace
// into a single space token so wrapping decisions happen between words.
func splitKeepSpace(s string) []string {
	var out []string
	var b strings.Builder
	inSpace := false
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
		if isSpace != inSpace {
			flush()
			inSpace = isSpace
		}
		if isSpace {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	flush()
	return out
}
