package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBadValue   = errors.New("invalid value")
	ErrBadTicks   = errors.New("invalid ticks")
)
