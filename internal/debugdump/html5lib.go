package debugdump

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/gosub/internal/dom"
)

// Html5LibFormat renders the subtree rooted at root in the html5lib
// tree-test line syntax (§6 "html5lib tree dump format"): two spaces of
// indentation per depth level, attributes alphabetical one per line under
// their element, text nodes quoted. The synthetic #document root is not
// itself printed; its children start at depth 0.
func Html5LibFormat(arena *dom.Arena, root dom.ID) string {
	var b strings.Builder
	n := arena.Get(root)
	if n == nil {
		return ""
	}
	if n.Kind == dom.DocumentKind {
		for _, c := range n.Children {
			dumpHtml5Lib(&b, arena, c, 0)
		}
		return b.String()
	}
	dumpHtml5Lib(&b, arena, root, 0)
	return b.String()
}

func dumpHtml5Lib(b *strings.Builder, arena *dom.Arena, id dom.ID, depth int) {
	n := arena.Get(id)
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case dom.DocTypeKind:
		fmt.Fprintf(b, "| %s%s\n", indent, doctypeLine(n))
	case dom.CommentKind:
		fmt.Fprintf(b, "| %s<!-- %s -->\n", indent, n.Text)
	case dom.TextKind:
		fmt.Fprintf(b, "| %s%q\n", indent, n.Text)
	case dom.ElementKind:
		fmt.Fprintf(b, "| %s<%s%s>\n", indent, nsPrefix(n.NS), n.TagName)
		for _, k := range sortedAttrKeys(n.Attrs) {
			v, _ := n.Attrs.Get(k)
			fmt.Fprintf(b, "| %s  %s=%q\n", indent, k, v)
		}
		for _, c := range n.Children {
			dumpHtml5Lib(b, arena, c, depth+1)
		}
	}
}

func doctypeLine(n *dom.Node) string {
	if n.PublicID == "" && n.SystemID == "" {
		return fmt.Sprintf("<!DOCTYPE %s>", n.DoctypeName)
	}
	return fmt.Sprintf("<!DOCTYPE %s %q %q>", n.DoctypeName, n.PublicID, n.SystemID)
}

func nsPrefix(ns dom.Namespace) string {
	switch ns {
	case dom.SVG:
		return "svg "
	case dom.MathML:
		return "math "
	default:
		return ""
	}
}

func sortedAttrKeys(attrs *dom.AttrMap) []string {
	if attrs == nil {
		return nil
	}
	keys := attrs.Keys()
	sort.Strings(keys)
	return keys
}
