package paint

import (
	"image/color"
	"strconv"

	"github.com/npillmayer/gosub/internal/cssom"
)

// namedColors covers the CSS basic color keywords; anything outside this
// small set falls back to black rather than failing the paint pass.
var namedColors = map[string]color.RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"silver":  {192, 192, 192, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"navy":    {0, 0, 128, 255},
	"teal":    {0, 128, 128, 255},
	"maroon":  {128, 0, 0, 255},
	"olive":   {128, 128, 0, 255},
	"lime":    {0, 255, 0, 255},
	"aqua":    {0, 255, 255, 255},
	"fuchsia": {255, 0, 255, 255},
}

// resolveColor maps a lowered CSS color value (a named keyword or a `#...`
// hex ColorValue) to a color.Color. ok is false for "transparent" (the
// caller should skip painting the brush) and "currentcolor" (the caller
// must substitute the element's own `color` value).
func resolveColor(v cssom.CssValue) (c color.Color, ok bool) {
	switch v.Kind {
	case cssom.ColorValue:
		return parseHexColor(v.Str)
	case cssom.KeywordValue:
		switch v.Keyword {
		case "transparent", "currentcolor", "":
			return nil, false
		}
		if rgba, found := namedColors[v.Keyword]; found {
			return rgba, true
		}
		return color.RGBA{0, 0, 0, 255}, true
	}
	return nil, false
}

func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := s[1:]
	expand := func(c byte) byte {
		v, err := strconv.ParseUint(string([]byte{c, c}), 16, 8)
		if err != nil {
			return 0
		}
		return byte(v)
	}
	parse2 := func(h string) byte {
		v, err := strconv.ParseUint(h, 16, 8)
		if err != nil {
			return 0
		}
		return byte(v)
	}
	switch len(hex) {
	case 3:
		return color.RGBA{expand(hex[0]), expand(hex[1]), expand(hex[2]), 255}, true
	case 4:
		return color.RGBA{expand(hex[0]), expand(hex[1]), expand(hex[2]), expand(hex[3])}, true
	case 6:
		return color.RGBA{parse2(hex[0:2]), parse2(hex[2:4]), parse2(hex[4:6]), 255}, true
	case 8:
		return color.RGBA{parse2(hex[0:2]), parse2(hex[2:4]), parse2(hex[4:6]), parse2(hex[6:8])}, true
	}
	return color.RGBA{}, false
}
