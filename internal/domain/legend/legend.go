// Package legend derives on-screen legend swatches from a threshold scale.
//
// Build returns plain data. Drawing it (SVG, HTML, terminal) is the caller's
// job, so a legend can be produced any number of times without side effects.
package legend

import (
	"slices"
	"strconv"

	"github.com/aclements/go-moremath/vec"

	"github.com/okian/zipheat/internal/domain/colorscale"
)

// tickDigits bounds tick precision so that evenly spaced ticks such as 0.2
// come out as the literal value rather than 0.19999999999999996.
const tickDigits = 12

// Entry is one legend swatch.
type Entry struct {
	Value float64          `json:"value"`
	Color colorscale.Color `json:"color"`
	Label string           `json:"label"`
}

// Build returns tickCount entries evenly spaced over the scale domain,
// ascending, or descending when reversed is set. Colors come from the
// threshold scale unless a gradient is configured. tickCount <= 0 yields no
// entries.
func Build(s *colorscale.ThresholdScale, tickCount int, reversed bool, opts ...Option) []Entry {
	if s == nil || tickCount <= 0 {
		return nil
	}

	o := options{format: PlainLabels()}
	o.lo, o.hi = s.Domain()
	for _, opt := range opts {
		opt(&o)
	}

	colorFor := s.ColorFor
	if o.gradient != nil {
		colorFor = o.gradient.ColorFor
	}

	ticks := Ticks(o.lo, o.hi, tickCount)
	entries := make([]Entry, len(ticks))
	for i, v := range ticks {
		entries[i] = Entry{Value: v, Color: colorFor(v), Label: o.format(v)}
	}
	if reversed {
		slices.Reverse(entries)
	}
	return entries
}

// Ticks returns n evenly spaced values from lo to hi inclusive. With n == 1
// the single tick is lo.
func Ticks(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{snap(lo)}
	}
	ticks := vec.Linspace(lo, hi, n)
	for i, v := range ticks {
		ticks[i] = snap(v)
	}
	return ticks
}

func snap(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', tickDigits, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		// Drop negative zero.
		return 0
	}
	return r
}
