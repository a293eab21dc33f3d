package cssom

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
)

func evaluateMediaQueryList(queries []cssast.MediaQuery, env Environment) bool {
	for _, q := range queries {
		if evaluateOneQuery(q, env) {
			return true
		}
	}
	return false
}

func evaluateOneQuery(q cssast.MediaQuery, env Environment) bool {
	typeMatch := q.MediaType == "" || q.MediaType == "all" || strings.EqualFold(q.MediaType, env.MediaType)
	featuresMatch := true
	for _, f := range q.Features {
		if !evaluateFeature(f, env) {
			featuresMatch = false
			break
		}
	}
	matched := typeMatch && featuresMatch
	if q.Qualifier == cssast.QualifierNot {
		return !matched
	}
	return matched
}

func evaluateFeature(f cssast.MediaFeature, env Environment) bool {
	name := strings.ToLower(f.Name)
	if len(f.Value) == 0 {
		switch name {
		case "color", "width", "height":
			return true
		default:
			return false
		}
	}
	want, ok := dimensionValue(cssast.StripWhitespace(f.Value))
	if !ok {
		return false
	}
	switch name {
	case "width":
		return env.ViewportWidth == want
	case "min-width":
		return env.ViewportWidth >= want
	case "max-width":
		return env.ViewportWidth <= want
	case "height":
		return env.ViewportHeight == want
	case "min-height":
		return env.ViewportHeight >= want
	case "max-height":
		return env.ViewportHeight <= want
	}
	return false
}

func dimensionValue(vals []cssast.ComponentValue) (float64, bool) {
	if len(vals) != 1 || vals[0].Token == nil {
		return 0, false
	}
	t := vals[0].Token
	switch t.Type {
	case csstok.Number:
		return t.NumValue, true
	case csstok.Dimension:
		if strings.EqualFold(t.Unit, "px") {
			return t.NumValue, true
		}
		return t.NumValue, true // unit conversion is a layout-stage concern
	}
	_, err := strconv.ParseFloat(t.Value, 64)
	return 0, err == nil
}
