package geo

import "errors"

// Sentinel kinds for boundary source errors.
var (
	ErrBoundaries = errors.New("invalid boundary source")
)
