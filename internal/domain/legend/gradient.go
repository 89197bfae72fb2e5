package legend

import (
	"errors"
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"

	"github.com/okian/zipheat/internal/domain/colorscale"
)

// Sentinel error kinds for this package.
var (
	ErrGradientColors = errors.New("gradient needs at least two colors")
	ErrGradientDomain = errors.New("gradient domain must satisfy lo < hi")
)

// Gradient is a continuous color ramp over a numeric domain. Values outside
// the domain clamp to the end colors.
type Gradient struct {
	ramp     palette.RGBGradient
	segments int
	domain   scale.Linear
}

// NewGradient interpolates evenly between colors over [lo, hi].
func NewGradient(colors []colorscale.Color, lo, hi float64) (*Gradient, error) {
	if len(colors) < 2 {
		return nil, ErrGradientColors
	}
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, ErrGradientDomain
	}
	// RGBGradient answers its first color for the whole first segment, so
	// the ramp carries a leading copy of the first color and lookups are
	// shifted one segment to the right.
	stops := make([]color.RGBA, 0, len(colors)+1)
	stops = append(stops, toRGBA(colors[0]))
	for _, c := range colors {
		stops = append(stops, toRGBA(c))
	}
	return &Gradient{
		ramp:     palette.RGBGradient{Colors: stops},
		segments: len(colors) - 1,
		domain:   scale.Linear{Min: lo, Max: hi, Clamp: true},
	}, nil
}

// ColorFor returns the interpolated color at v. NaN maps to the first color.
func (g *Gradient) ColorFor(v float64) colorscale.Color {
	if math.IsNaN(v) {
		return colorscale.FromColor(g.ramp.Colors[0])
	}
	// Map returns the last stop exactly at 1; the first stop needs the same.
	x := math.Max(0, math.Min(1, g.domain.Map(v)))
	if x == 0 {
		return colorscale.FromColor(g.ramp.Colors[0])
	}
	shifted := (x*float64(g.segments) + 1) / float64(g.segments+1)
	return colorscale.FromColor(g.ramp.Map(shifted))
}

func toRGBA(c colorscale.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
