package colorscale

import (
	"fmt"
	"math"
	"sort"
)

// NoDataBucket is the bucket index reported for NaN input.
const NoDataBucket = -1

// Option applies a configuration option to a ThresholdScale.
type Option func(*ThresholdScale)

// WithNoDataColor sets the color returned for NaN input.
func WithNoDataColor(c Color) Option {
	return func(s *ThresholdScale) {
		s.noData = c
	}
}

// ThresholdScale is a step function from the real line onto a palette.
//
// Bucket 0 covers (-inf, b[0]), bucket k covers [b[k-1], b[k]) and bucket N
// covers [b[N-1], +inf). A value equal to a boundary belongs to the bucket
// above it. Values outside the boundaries saturate at the first or last color.
//
// A ThresholdScale is immutable and safe for concurrent use.
type ThresholdScale struct {
	boundaries []float64
	colors     []Color
	noData     Color
}

// New validates and builds a ThresholdScale. Boundaries must be finite and
// strictly increasing, and there must be exactly one more color than
// boundaries. Both slices are copied.
func New(boundaries []float64, colors []Color, opts ...Option) (*ThresholdScale, error) {
	if len(boundaries) == 0 {
		return nil, ErrNoBoundaries
	}
	if len(colors) != len(boundaries)+1 {
		return nil, fmt.Errorf("%w: %d boundaries, %d colors", ErrColorCount, len(boundaries), len(colors))
	}
	for i, b := range boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("%w: boundary %d is %v", ErrNonFinite, i, b)
		}
		if i > 0 && b <= boundaries[i-1] {
			return nil, fmt.Errorf("%w: boundary %d (%v) <= boundary %d (%v)", ErrBoundaryOrder, i, b, i-1, boundaries[i-1])
		}
	}

	s := &ThresholdScale{
		boundaries: append([]float64(nil), boundaries...),
		colors:     append([]Color(nil), colors...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(boundaries []float64, colors []Color, opts ...Option) *ThresholdScale {
	s, err := New(boundaries, colors, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Bucket returns the index of the color assigned to value: the smallest i
// such that value < boundaries[i], or len(boundaries) when there is none.
// NaN yields NoDataBucket.
func (s *ThresholdScale) Bucket(value float64) int {
	if math.IsNaN(value) {
		return NoDataBucket
	}
	return sort.Search(len(s.boundaries), func(i int) bool {
		return value < s.boundaries[i]
	})
}

// ColorFor returns the color of the bucket that value falls into.
func (s *ThresholdScale) ColorFor(value float64) Color {
	i := s.Bucket(value)
	if i == NoDataBucket {
		return s.noData
	}
	return s.colors[i]
}

// Domain returns the first and last boundary.
func (s *ThresholdScale) Domain() (lo, hi float64) {
	return s.boundaries[0], s.boundaries[len(s.boundaries)-1]
}

// Boundaries returns a copy of the cut points.
func (s *ThresholdScale) Boundaries() []float64 {
	return append([]float64(nil), s.boundaries...)
}

// Colors returns a copy of the palette.
func (s *ThresholdScale) Colors() []Color {
	return append([]Color(nil), s.colors...)
}

// NoData returns the color used for NaN input.
func (s *ThresholdScale) NoData() Color { return s.noData }

// Len returns the number of buckets.
func (s *ThresholdScale) Len() int { return len(s.colors) }
