package dom

import (
	"testing"

	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaRootIsDocumentAtZero(t *testing.T) {
	a := NewArena()
	require.True(t, a.Valid(0))
	assert.Equal(t, DocumentKind, a.Get(0).Kind)
}

func TestAppendChildSetsParentAndOrder(t *testing.T) {
	a := NewArena()
	p := a.CreateElement("body", HTML, errs.Location{})
	c1 := a.CreateText("a", errs.Location{})
	c2 := a.CreateText("b", errs.Location{})
	a.AppendChild(p, c1)
	a.AppendChild(p, c2)

	pn := a.Get(p)
	require.Len(t, pn.Children, 2)
	assert.Equal(t, c1, pn.Children[0])
	assert.Equal(t, c2, pn.Children[1])
	assert.Equal(t, p, a.Get(c1).Parent)
	assert.True(t, a.Get(c1).HasParent)
}

func TestInsertChildAtPosition(t *testing.T) {
	a := NewArena()
	p := a.CreateElement("ul", HTML, errs.Location{})
	c1 := a.CreateElement("li", HTML, errs.Location{})
	c2 := a.CreateElement("li", HTML, errs.Location{})
	c3 := a.CreateElement("li", HTML, errs.Location{})
	a.AppendChild(p, c1)
	a.AppendChild(p, c3)
	a.InsertChild(p, c2, 1)
	assert.Equal(t, []ID{c1, c2, c3}, a.Get(p).Children)
}

func TestDetachRemovesFromParent(t *testing.T) {
	a := NewArena()
	p := a.CreateElement("div", HTML, errs.Location{})
	c := a.CreateText("x", errs.Location{})
	a.AppendChild(p, c)
	a.Detach(c)
	assert.Empty(t, a.Get(p).Children)
	assert.False(t, a.Get(c).HasParent)
}

func TestReattachingMovesNode(t *testing.T) {
	a := NewArena()
	p1 := a.CreateElement("div", HTML, errs.Location{})
	p2 := a.CreateElement("span", HTML, errs.Location{})
	c := a.CreateText("x", errs.Location{})
	a.AppendChild(p1, c)
	a.AppendChild(p2, c)
	assert.Empty(t, a.Get(p1).Children)
	assert.Equal(t, []ID{c}, a.Get(p2).Children)
}

func TestMonotonicIDs(t *testing.T) {
	a := NewArena()
	ids := make(map[ID]bool)
	for i := 0; i < 10; i++ {
		id := a.CreateElement("p", HTML, errs.Location{})
		assert.False(t, ids[id], "id must not repeat")
		ids[id] = true
	}
}

func TestAttrMapOrderedUniqueKeys(t *testing.T) {
	m := NewAttrMap()
	m.Set("b", "1")
	m.Set("a", "2")
	m.Set("b", "3") // duplicate key keeps first slot, overwrites value
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}
