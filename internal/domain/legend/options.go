package legend

import (
	"strconv"
)

// LabelFormatter renders a tick value as legend text.
type LabelFormatter func(v float64) string

type options struct {
	lo, hi   float64
	gradient *Gradient
	format   LabelFormatter
}

// Option applies a configuration option to Build.
type Option func(*options)

// WithGradient colors ticks from a continuous gradient instead of the
// threshold buckets.
func WithGradient(g *Gradient) Option {
	return func(o *options) {
		if g != nil {
			o.gradient = g
		}
	}
}

// WithFormatter sets the label formatter.
func WithFormatter(f LabelFormatter) Option {
	return func(o *options) {
		if f != nil {
			o.format = f
		}
	}
}

// WithDomain spreads ticks over [lo, hi] instead of the scale's outer
// boundaries. Ignored unless lo < hi.
func WithDomain(lo, hi float64) Option {
	return func(o *options) {
		if lo < hi {
			o.lo, o.hi = lo, hi
		}
	}
}

// PlainLabels prints the shortest decimal form: -0.8, 0, 0.2.
func PlainLabels() LabelFormatter {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// PercentLabels prints v*100 with the given number of decimals and a % sign.
func PercentLabels(decimals int) LabelFormatter {
	if decimals < 0 {
		decimals = 0
	}
	return func(v float64) string {
		return strconv.FormatFloat(snap(v*100), 'f', decimals, 64) + "%"
	}
}
