package debugdump

import (
	"strings"
	"testing"

	"github.com/npillmayer/gosub/internal/dom"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/layering"
	"github.com/npillmayer/gosub/internal/layout"
	"github.com/npillmayer/gosub/internal/rendertree"
	"github.com/stretchr/testify/assert"
)

func TestDOMDumpIncludesSortedAttributes(t *testing.T) {
	a := dom.NewArena()
	div := a.CreateElement("div", dom.HTML, errs.Location{})
	a.Get(div).Attrs.Set("id", "x")
	a.Get(div).Attrs.Set("class", "y")
	a.AppendChild(a.Root(), div)

	out := DOM(a, a.Root())
	assert.Contains(t, out, `class="y"`)
	assert.Contains(t, out, `id="x"`)
	assert.True(t, strings.Index(out, `class="y"`) < strings.Index(out, `id="x"`))
}

func TestRenderTreeDumpShowsDisplay(t *testing.T) {
	root := &rendertree.Node{Kind: rendertree.ElementNode, TagName: "div", Children: []*rendertree.Node{
		{Kind: rendertree.TextNode, Text: "hi"},
	}}
	out := RenderTree(root)
	assert.Contains(t, out, "<div> display=inline")
	assert.Contains(t, out, `"hi"`)
}

func TestLayoutTreeDumpShowsGeometry(t *testing.T) {
	tree := &layout.Tree{}
	el := &layout.Element{ID: 0, Border: layout.Rect{X: 1, Y: 2, W: 3, H: 4}}
	tree.Elements = append(tree.Elements, el)
	tree.Root = 0
	out := LayoutTree(tree)
	assert.Contains(t, out, "border=(1.0,2.0 3.0x4.0)")
}

func TestLayersDumpListsElementsPerLayer(t *testing.T) {
	lt := &layering.Tree{Layers: []layering.Layer{{Order: 0, Elements: []int{0, 1}}}, ElementLayer: map[int]int{0: 0, 1: 0}}
	out := Layers(lt)
	assert.Contains(t, out, "layer 0")
	assert.Contains(t, out, "#0")
	assert.Contains(t, out, "#1")
}
