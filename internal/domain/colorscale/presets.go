package colorscale

import (
	"fmt"
	"sort"
	"strings"
)

// PriceChangeBoundaries are the cut points of the price change choropleth.
var PriceChangeBoundaries = []float64{-1, -.8, -.6, -.4, -.2, 0, .2, .4, .6, .8, 1}

// PriceChangeColors runs teal (falling prices) through white to brown
// (rising prices). The first two entries are equal so that values below -1
// and in [-1, -0.8) share a swatch.
var PriceChangeColors = []Color{
	RGB(0, 60, 48),
	RGB(0, 60, 48),
	RGB(1, 102, 94),
	RGB(53, 151, 143),
	RGB(128, 205, 193),
	RGB(199, 234, 229),
	RGB(255, 255, 255),
	RGB(246, 232, 195),
	RGB(223, 194, 125),
	RGB(191, 129, 45),
	RGB(140, 81, 10),
	RGB(84, 48, 5),
}

// Continuous ramps for gradient legends (ColorBrewer).
var ramps = map[string][]Color{
	"brbg": MustParseColors(
		"#003c30", "#01665e", "#35978f", "#80cdc1", "#c7eae5", "#f5f5f5",
		"#f6e8c3", "#dfc27d", "#bf812d", "#8c510a", "#543005",
	),
	"oranges": MustParseColors(
		"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c",
		"#f16913", "#d94801", "#a63603", "#7f2704",
	),
}

// Preset is a named scale definition.
type Preset struct {
	Boundaries []float64
	Colors     []Color
}

var presets = map[string]Preset{
	"price-change": {Boundaries: PriceChangeBoundaries, Colors: PriceChangeColors},
}

// LookupPreset returns a copy of the named scale definition.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return Preset{
		Boundaries: append([]float64(nil), p.Boundaries...),
		Colors:     append([]Color(nil), p.Colors...),
	}, nil
}

// Ramp returns a copy of the named continuous ramp (BrBG, Oranges).
func Ramp(name string) ([]Color, error) {
	r, ok := ramps[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: ramp %q", ErrUnknownPreset, name)
	}
	return append([]Color(nil), r...), nil
}

// RampNames lists the available ramps.
func RampNames() []string {
	names := make([]string, 0, len(ramps))
	for name := range ramps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
