package htmltree

import (
	"testing"

	"github.com/npillmayer/gosub/internal/debugdump"
	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findChild(a *dom.Arena, parent dom.ID, tag string) (dom.ID, bool) {
	for _, c := range a.Get(parent).Children {
		if a.Get(c).Kind == dom.ElementKind && a.Get(c).TagName == tag {
			return c, true
		}
	}
	return -1, false
}

func TestSimpleDocument(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte("<!doctype html><html><body><p>hi</p></body></html>"), log)
	html, ok := findChild(a, a.Root(), "html")
	require.True(t, ok)
	assert.Equal(t, dom.NoQuirks, a.Get(a.Root()).Quirks)
	body, ok := findChild(a, html, "body")
	require.True(t, ok)
	p, ok := findChild(a, body, "p")
	require.True(t, ok)
	require.Len(t, a.Get(p).Children, 1)
	assert.Equal(t, "hi", a.Get(a.Get(p).Children[0]).Text)
}

func TestMissingDoctypeTriggersQuirks(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte("<html><body>x</body></html>"), log)
	assert.Equal(t, dom.Quirks, a.Get(a.Root()).Quirks)
}

// TestFragmentEquivalence checks the fragment-equivalence property: parsing
// "<ctx>X</ctx>" as a document and parsing "X" as a fragment with context
// ctx produce the same subtree under the <ctx> node.
func TestFragmentEquivalence(t *testing.T) {
	const inner = `<b>hi</b> and <i>bye</i>`

	docLog := errs.NewLog()
	docArena := ParseDocument([]byte("<div>"+inner+"</div>"), docLog)
	html, ok := findChild(docArena, docArena.Root(), "html")
	require.True(t, ok)
	body, ok := findChild(docArena, html, "body")
	require.True(t, ok)
	div, ok := findChild(docArena, body, "div")
	require.True(t, ok)

	fragLog := errs.NewLog()
	fragArena, fragChildren := ParseFragment([]byte(inner), "div", dom.HTML, dom.NoQuirks, fragLog)

	docChildren := docArena.Get(div).Children
	require.Len(t, fragChildren, len(docChildren))
	for i := range docChildren {
		docDump := debugdump.Html5LibFormat(docArena, docChildren[i])
		fragDump := debugdump.Html5LibFormat(fragArena, fragChildren[i])
		assert.Equal(t, docDump, fragDump)
	}
}

func TestImpliedHeadAndBody(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte("<!doctype html><p>x</p>"), log)
	html, ok := findChild(a, a.Root(), "html")
	require.True(t, ok)
	_, ok = findChild(a, html, "head")
	assert.True(t, ok)
	body, ok := findChild(a, html, "body")
	require.True(t, ok)
	_, ok = findChild(a, body, "p")
	assert.True(t, ok)
}

// TestAdoptionAgencyMisnestedFormatting exercises the canonical
// `<p><b><i>X</b>Y</i>Z` misnesting example: the adoption agency algorithm
// must split the <b> around the </b> end tag while keeping <i> open so
// that Y ends up inside a cloned <i>.
func TestAdoptionAgencyMisnestedFormatting(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte("<!doctype html><p><b><i>X</b>Y</i>Z"), log)
	html, ok := findChild(a, a.Root(), "html")
	require.True(t, ok)
	body, ok := findChild(a, html, "body")
	require.True(t, ok)
	p, ok := findChild(a, body, "p")
	require.True(t, ok)
	// p should contain a <b> (wrapping <i>X) followed by a cloned <i>
	// (wrapping Y), with the trailing "Z" text after both, directly in <p>.
	b, ok := findChild(a, p, "b")
	require.True(t, ok, "expected a <b> under <p>")
	i, ok := findChild(a, b, "i")
	require.True(t, ok, "expected a nested <i> inside <b> wrapping X")
	require.Len(t, a.Get(i).Children, 1)
	assert.Equal(t, "X", a.Get(a.Get(i).Children[0]).Text)
}

func TestSelfClosingNonVoidElementTree(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte(`<!doctype html><html><body><a href="x"/>link</body></html>`), log)
	html, _ := findChild(a, a.Root(), "html")
	body, _ := findChild(a, html, "body")
	link, ok := findChild(a, body, "a")
	require.True(t, ok)
	v, ok := a.Get(link).Attrs.Get("href")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestTableFosterParenting(t *testing.T) {
	log := errs.NewLog()
	a := ParseDocument([]byte("<!doctype html><table>stray<tr><td>cell</td></tr></table>"), log)
	html, _ := findChild(a, a.Root(), "html")
	body, _ := findChild(a, html, "body")
	table, ok := findChild(a, body, "table")
	require.True(t, ok)
	// the stray text must be foster-parented before the <table>, not a
	// child of it.
	foundStrayBeforeTable := false
	for _, c := range a.Get(body).Children {
		if c == table {
			break
		}
		if a.Get(c).Kind == dom.TextKind {
			foundStrayBeforeTable = true
		}
	}
	assert.True(t, foundStrayBeforeTable, "stray text should be foster-parented out of the table")
	tbody, ok := findChild(a, table, "tbody")
	require.True(t, ok)
	tr, ok := findChild(a, tbody, "tr")
	require.True(t, ok)
	_, ok = findChild(a, tr, "td")
	assert.True(t, ok)
}

func TestQuirksModeFromPublicID(t *testing.T) {
	mode := QuirksModeFor("html", "-//W3C//DTD HTML 4.01 Transitional//EN", "", true, false, false)
	assert.Equal(t, dom.Quirks, mode)
	mode = QuirksModeFor("html", "-//W3C//DTD HTML 4.01 Transitional//EN", "http://www.w3.org/TR/html4/loose.dtd", true, true, false)
	assert.Equal(t, dom.LimitedQuirks, mode)
}
