// Package dom implements the arena of DOM nodes addressed by dense integer
// IDs (§3 "DOM Node"), generalizing the teacher's pointer-based generic
// tree (github.com/npillmayer/fp/tree) into an ID-indexed arena as the
// spec's invariants require ("the arena assigns IDs monotonically from 1;
// ID 0 is the root Document"). The Parent/Children/ChildCount accessor
// idiom is kept from tree.Node, but node identity is now an ID, not a
// pointer, so subtrees relocate in O(1) and back-references are plain
// integers checked against arena membership (§9 "Arenas over pointers").
package dom

import (
	"fmt"

	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.dom")
}

// ID identifies a node within one Arena. ID 0 is always the root Document.
type ID int

// Namespace distinguishes the three foreign-content namespaces (§4.2).
type Namespace int

const (
	HTML Namespace = iota
	SVG
	MathML
)

// QuirksMode is the document's quirks classification (§4.2 "Quirks detection").
type QuirksMode int

const (
	NoQuirks QuirksMode = iota
	LimitedQuirks
	Quirks
)

// Kind tags a Node's payload variant.
type Kind int

const (
	DocumentKind Kind = iota
	DocTypeKind
	ElementKind
	TextKind
	CommentKind
)

// Node is one entry of the arena: parent/children links plus a tagged
// payload (§3). Children are kept in document order.
type Node struct {
	ID       ID
	Parent   ID  // meaningful only while HasParent is true
	HasParent bool
	Children []ID
	Kind     Kind
	Location errs.Location

	// Document payload.
	Quirks QuirksMode

	// DocType payload.
	DoctypeName, PublicID, SystemID string

	// Element payload.
	TagName         string
	NS              Namespace
	Attrs           *AttrMap
	ClassList       []string
	TemplateContent *Fragment // non-nil only for <template> elements

	// Text / Comment payload.
	Text string
}

// AttrMap is an ordered map string->string with unique keys (§3 StartTag).
type AttrMap struct {
	keys   []string
	values map[string]string
}

// NewAttrMap creates an empty ordered attribute map.
func NewAttrMap() *AttrMap {
	return &AttrMap{values: make(map[string]string)}
}

// Set inserts or updates an attribute, preserving first-insertion order.
func (m *AttrMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns an attribute's value and whether it is present.
func (m *AttrMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns attribute names in insertion order.
func (m *AttrMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of attributes.
func (m *AttrMap) Len() int { return len(m.keys) }

// Arena owns a set of Nodes for one document (or one document fragment).
// IDs are assigned monotonically starting at 1; ID 0 is reserved for the
// Document root node, created by NewArena.
type Arena struct {
	nodes    []Node
	registered map[ID]bool
}

// NewArena creates an arena with a Document root at ID 0.
func NewArena() *Arena {
	a := &Arena{registered: make(map[ID]bool)}
	root := Node{ID: 0, Kind: DocumentKind, HasParent: false}
	a.nodes = append(a.nodes, root)
	a.registered[0] = true
	return a
}

// Root returns the ID of the document root (always 0).
func (a *Arena) Root() ID { return 0 }

// Get returns a pointer to a node for in-place mutation. Panics on an
// unregistered ID — callers are internal and always hold a valid ID.
func (a *Arena) Get(id ID) *Node {
	if int(id) < 0 || int(id) >= len(a.nodes) || !a.registered[id] {
		panic(fmt.Sprintf("dom: invalid node id %d", id))
	}
	return &a.nodes[id]
}

// Valid reports whether id addresses a live node in this arena.
func (a *Arena) Valid(id ID) bool {
	return int(id) >= 0 && int(id) < len(a.nodes) && a.registered[id]
}

// newID allocates the next monotonic ID. A node registered once may not be
// registered again (§3 invariant) — newID always hands out a fresh ID.
func (a *Arena) newID() ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, Node{ID: id, HasParent: false})
	a.registered[id] = true
	return id
}

// CreateElement allocates a new, unattached Element node.
func (a *Arena) CreateElement(tag string, ns Namespace, loc errs.Location) ID {
	id := a.newID()
	n := a.Get(id)
	n.Kind = ElementKind
	n.TagName = tag
	n.NS = ns
	n.Attrs = NewAttrMap()
	n.Location = loc
	return id
}

// CreateText allocates a new, unattached Text node.
func (a *Arena) CreateText(value string, loc errs.Location) ID {
	id := a.newID()
	n := a.Get(id)
	n.Kind = TextKind
	n.Text = value
	n.Location = loc
	return id
}

// CreateComment allocates a new, unattached Comment node.
func (a *Arena) CreateComment(value string, loc errs.Location) ID {
	id := a.newID()
	n := a.Get(id)
	n.Kind = CommentKind
	n.Text = value
	n.Location = loc
	return id
}

// CreateDocType allocates a new, unattached DocType node.
func (a *Arena) CreateDocType(name, pub, sys string, loc errs.Location) ID {
	id := a.newID()
	n := a.Get(id)
	n.Kind = DocTypeKind
	n.DoctypeName, n.PublicID, n.SystemID = name, pub, sys
	n.Location = loc
	return id
}

// AppendChild attaches child as the last child of parent. A child that
// already has a parent is detached from it first.
func (a *Arena) AppendChild(parent, child ID) {
	a.InsertChild(parent, child, -1)
}

// InsertChild attaches child to parent at position idx (append if idx<0 or
// idx>=len(children)).
func (a *Arena) InsertChild(parent, child ID, idx int) {
	cn := a.Get(child)
	if cn.HasParent {
		tracer().Errorf("dom: node %d already has a parent, detaching first", child)
		a.Detach(child)
	}
	pn := a.Get(parent)
	if idx < 0 || idx >= len(pn.Children) {
		pn.Children = append(pn.Children, child)
	} else {
		pn.Children = append(pn.Children, 0)
		copy(pn.Children[idx+1:], pn.Children[idx:])
		pn.Children[idx] = child
	}
	cn.Parent = parent
	cn.HasParent = true
}

// Detach removes a node from its parent's child list without destroying it.
func (a *Arena) Detach(id ID) {
	n := a.Get(id)
	if !n.HasParent {
		return
	}
	p := a.Get(n.Parent)
	for i, ch := range p.Children {
		if ch == id {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.HasParent = false
}

// IndexOfChild returns the position of child within parent's child list, or -1.
func (a *Arena) IndexOfChild(parent, child ID) int {
	for i, ch := range a.Get(parent).Children {
		if ch == child {
			return i
		}
	}
	return -1
}

// AppendText appends to the value of a Text node (interior mutability, §3).
func (a *Arena) AppendText(id ID, s string) {
	n := a.Get(id)
	n.Text += s
}

// Fragment is a separate arena with its own root, used for template
// contents and for fragment parsing (§4.2).
type Fragment struct {
	Arena *Arena
}

// NewFragment creates an empty document fragment.
func NewFragment() *Fragment {
	return &Fragment{Arena: NewArena()}
}
