package layout

// FontManager shapes text into glyph advances (§4.6: "pick a font by
// family stack + style + weight, shape glyphs [...] opaque to this spec").
// The layouter depends only on this interface; a real implementation
// would own font files, fallback stacks and a shaping engine.
type FontManager interface {
	// Advance returns the total horizontal advance, in px, of s set at
	// the given pixel size.
	Advance(s string, family string, sizePx float64) float64
	// LineHeight returns the default line height, in px, for a font at
	// the given pixel size.
	LineHeight(family string, sizePx float64) float64
}

// averageAdvanceFontManager is the deterministic placeholder shaping
// engine used when the pipeline is run without a real font backend: every
// glyph advances by a fixed fraction of the font size. It keeps layout
// fully deterministic (§4.6 "identical inputs produce identical
// geometry") without depending on any installed fonts.
type averageAdvanceFontManager struct{}

// DefaultFontManager is the fallback FontManager used when none is supplied.
var DefaultFontManager FontManager = averageAdvanceFontManager{}

func (averageAdvanceFontManager) Advance(s string, _ string, sizePx float64) float64 {
	return float64(len([]rune(s))) * sizePx * 0.55
}

func (averageAdvanceFontManager) LineHeight(_ string, sizePx float64) float64 {
	return sizePx * 1.2
}
