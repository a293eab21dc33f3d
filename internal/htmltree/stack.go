package htmltree

import "github.com/npillmayer/gosub/internal/dom"

// elementStack is the stack of open elements (§4.2). Index 0 is the
// bottommost (first-pushed) element, the end of the slice is the current
// node.
type elementStack struct {
	items []dom.ID
	arena *dom.Arena
}

func (s *elementStack) push(id dom.ID)  { s.items = append(s.items, id) }
func (s *elementStack) pop() dom.ID {
	n := len(s.items) - 1
	id := s.items[n]
	s.items = s.items[:n]
	return id
}
func (s *elementStack) current() dom.ID {
	if len(s.items) == 0 {
		return -1
	}
	return s.items[len(s.items)-1]
}
func (s *elementStack) empty() bool { return len(s.items) == 0 }
func (s *elementStack) tagAt(i int) string {
	return s.arena.Get(s.items[i]).TagName
}

// contains reports whether id is anywhere on the stack.
func (s *elementStack) contains(id dom.ID) bool {
	for _, it := range s.items {
		if it == id {
			return true
		}
	}
	return false
}

// removeElement removes id from the stack wherever it occurs.
func (s *elementStack) removeElement(id dom.ID) {
	for i, it := range s.items {
		if it == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// replace swaps the element at position i for newID.
func (s *elementStack) replace(i int, newID dom.ID) { s.items[i] = newID }

func (s *elementStack) indexOf(id dom.ID) int {
	for i, it := range s.items {
		if it == id {
			return i
		}
	}
	return -1
}

// insertAt inserts id into the stack at position i, shifting the entry
// previously at i and everything above it up by one (used by the adoption
// agency algorithm).
func (s *elementStack) insertAt(i int, id dom.ID) {
	s.items = append(s.items, -1)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = id
}

func (s *elementStack) currentTag() string {
	c := s.current()
	if c < 0 {
		return ""
	}
	return s.arena.Get(c).TagName
}

// scopeBoundary tag sets for the "has an element in X scope" family of
// algorithms (§4.2).
var defaultScopeBoundary = map[string]bool{
	"applet": true, "caption": true, "html": true, "table": true,
	"td": true, "th": true, "marquee": true, "object": true,
	"template": true, "mi": true, "mo": true, "mn": true, "ms": true,
	"mtext": true, "annotation-xml": true, "foreignObject": true,
	"desc": true, "title": true,
}

// hasInScope implements the generic "has an element in specific scope"
// algorithm parameterized over an extra boundary set.
func (s *elementStack) hasInScope(tag string, extra map[string]bool) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		t := s.tagAt(i)
		if t == tag {
			return true
		}
		if defaultScopeBoundary[t] || (extra != nil && extra[t]) {
			return false
		}
	}
	return false
}

func (s *elementStack) hasInScopeAny(tags map[string]bool, extra map[string]bool) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		t := s.tagAt(i)
		if tags[t] {
			return true
		}
		if defaultScopeBoundary[t] || (extra != nil && extra[t]) {
			return false
		}
	}
	return false
}

func (s *elementStack) hasInButtonScope(tag string) bool {
	return s.hasInScope(tag, map[string]bool{"button": true})
}

var tableScopeBoundary = map[string]bool{"html": true, "table": true, "template": true}

func (s *elementStack) hasInTableScope(tag string) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		t := s.tagAt(i)
		if t == tag {
			return true
		}
		if tableScopeBoundary[t] {
			return false
		}
	}
	return false
}

var listItemScopeExtra = map[string]bool{"ol": true, "ul": true}

func (s *elementStack) hasInListItemScope(tag string) bool {
	return s.hasInScope(tag, listItemScopeExtra)
}

var selectScopeBoundaryAllowed = map[string]bool{"optgroup": true, "option": true}

func (s *elementStack) hasInSelectScope(tag string) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		t := s.tagAt(i)
		if t == tag {
			return true
		}
		if !selectScopeBoundaryAllowed[t] {
			return false
		}
	}
	return false
}
