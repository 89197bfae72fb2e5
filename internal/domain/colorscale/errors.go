package colorscale

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoBoundaries  = errors.New("threshold scale needs at least one boundary")
	ErrColorCount    = errors.New("threshold scale needs one more color than boundaries")
	ErrBoundaryOrder = errors.New("threshold boundaries must be strictly increasing")
	ErrNonFinite     = errors.New("threshold boundaries must be finite")
	ErrBadColor      = errors.New("invalid color")
	ErrUnknownPreset = errors.New("unknown preset")
)
