// Package style implements the cascade, inheritance and actual-value
// resolution stages of §4.5, turning a DOM plus a lowered cssom stylesheet
// list into a per-node resolved property map.
package style

import (
	"github.com/npillmayer/gosub/internal/cssom"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("gosub.style")
}

// PropertyDef is one entry of the property-definition registry (§4.5):
// whether a property is inherited, whether it is a shorthand, and (for
// shorthands) which longhands it expands to.
type PropertyDef struct {
	Name      string
	Inherited bool
	Shorthand bool
	Longhands []string
	Initial   cssom.CssValue
}

func kw(s string) cssom.CssValue { return cssom.CssValue{Kind: cssom.KeywordValue, Keyword: s} }
func num(n float64) cssom.CssValue { return cssom.CssValue{Kind: cssom.NumberValue, Number: n} }
func dim(n float64, unit string) cssom.CssValue {
	return cssom.CssValue{Kind: cssom.DimensionValue, Number: n, Unit: unit}
}

// Registry is the fixed property-definition table. Longhands are listed in
// the order the classic 1-to-4-value shorthand syntax assigns them
// (top, right, bottom, left).
var Registry = map[string]PropertyDef{
	"color":            {Name: "color", Inherited: true, Initial: kw("black")},
	"background-color": {Name: "background-color", Initial: kw("transparent")},
	"display":          {Name: "display", Initial: kw("inline")},
	"visibility":       {Name: "visibility", Inherited: true, Initial: kw("visible")},

	"margin-top":    {Name: "margin-top", Initial: dim(0, "px")},
	"margin-right":  {Name: "margin-right", Initial: dim(0, "px")},
	"margin-bottom": {Name: "margin-bottom", Initial: dim(0, "px")},
	"margin-left":   {Name: "margin-left", Initial: dim(0, "px")},
	"margin": {Name: "margin", Shorthand: true,
		Longhands: []string{"margin-top", "margin-right", "margin-bottom", "margin-left"}},

	"padding-top":    {Name: "padding-top", Initial: dim(0, "px")},
	"padding-right":  {Name: "padding-right", Initial: dim(0, "px")},
	"padding-bottom": {Name: "padding-bottom", Initial: dim(0, "px")},
	"padding-left":   {Name: "padding-left", Initial: dim(0, "px")},
	"padding": {Name: "padding", Shorthand: true,
		Longhands: []string{"padding-top", "padding-right", "padding-bottom", "padding-left"}},

	"border-top-width":    {Name: "border-top-width", Initial: dim(0, "px")},
	"border-right-width":  {Name: "border-right-width", Initial: dim(0, "px")},
	"border-bottom-width": {Name: "border-bottom-width", Initial: dim(0, "px")},
	"border-left-width":   {Name: "border-left-width", Initial: dim(0, "px")},
	"border-width": {Name: "border-width", Shorthand: true,
		Longhands: []string{"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"}},

	"border-style": {Name: "border-style", Initial: kw("none")},
	"border-color": {Name: "border-color", Initial: kw("currentcolor")},
	"border": {Name: "border", Shorthand: true,
		Longhands: []string{"border-width", "border-style", "border-color"}},

	"border-top-left-radius":     {Name: "border-top-left-radius", Initial: dim(0, "px")},
	"border-top-right-radius":    {Name: "border-top-right-radius", Initial: dim(0, "px")},
	"border-bottom-right-radius": {Name: "border-bottom-right-radius", Initial: dim(0, "px")},
	"border-bottom-left-radius":  {Name: "border-bottom-left-radius", Initial: dim(0, "px")},
	"border-radius": {Name: "border-radius", Shorthand: true,
		Longhands: []string{"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius", "border-bottom-left-radius"}},

	"width":      {Name: "width", Initial: kw("auto")},
	"height":     {Name: "height", Initial: kw("auto")},
	"min-width":  {Name: "min-width", Initial: dim(0, "px")},
	"min-height": {Name: "min-height", Initial: dim(0, "px")},
	"max-width":  {Name: "max-width", Initial: kw("none")},
	"max-height": {Name: "max-height", Initial: kw("none")},

	"position": {Name: "position", Initial: kw("static")},
	"top":      {Name: "top", Initial: kw("auto")},
	"right":    {Name: "right", Initial: kw("auto")},
	"bottom":   {Name: "bottom", Initial: kw("auto")},
	"left":     {Name: "left", Initial: kw("auto")},

	"overflow-x": {Name: "overflow-x", Initial: kw("visible")},
	"overflow-y": {Name: "overflow-y", Initial: kw("visible")},
	"overflow": {Name: "overflow", Shorthand: true,
		Longhands: []string{"overflow-x", "overflow-y"}},

	"aspect-ratio": {Name: "aspect-ratio", Initial: kw("auto")},

	"font-family": {Name: "font-family", Inherited: true, Initial: kw("sans-serif")},
	"font-size":   {Name: "font-size", Inherited: true, Initial: dim(16, "px")},
	"font-weight": {Name: "font-weight", Inherited: true, Initial: kw("normal")},
	"font-style":  {Name: "font-style", Inherited: true, Initial: kw("normal")},
	"line-height": {Name: "line-height", Inherited: true, Initial: kw("normal")},

	"text-align":           {Name: "text-align", Inherited: true, Initial: kw("start")},
	"text-decoration-line": {Name: "text-decoration-line", Initial: kw("none")},

	"flex-direction":  {Name: "flex-direction", Initial: kw("row")},
	"flex-grow":       {Name: "flex-grow", Initial: num(0)},
	"flex-shrink":     {Name: "flex-shrink", Initial: num(1)},
	"flex-basis":      {Name: "flex-basis", Initial: kw("auto")},
	"justify-content": {Name: "justify-content", Initial: kw("flex-start")},
	"align-items":     {Name: "align-items", Initial: kw("stretch")},

	"grid-template-columns": {Name: "grid-template-columns", Initial: kw("none")},
	"grid-template-rows":    {Name: "grid-template-rows", Initial: kw("none")},
	"grid-column":           {Name: "grid-column", Initial: kw("auto")},
	"grid-row":              {Name: "grid-row", Initial: kw("auto")},

	"z-index":   {Name: "z-index", Initial: kw("auto")},
	"opacity":   {Name: "opacity", Initial: num(1)},
	"transform": {Name: "transform", Initial: kw("none")},

	"--custom": {Name: "--custom", Inherited: true},
}

// lookup resolves a property's definition, treating any `--name` property
// as a registered custom property (Registry's "--custom" catch-all carries
// the shared inheritance rule for all of them).
func lookup(name string) (PropertyDef, bool) {
	if len(name) >= 2 && name[:2] == "--" {
		def := Registry["--custom"]
		def.Name = name
		return def, true
	}
	def, ok := Registry[name]
	if !ok {
		tracer().Debugf("style: unrecognized property %q ignored", name)
	}
	return def, ok
}
