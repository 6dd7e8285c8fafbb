package model

import (
	"errors"
	"math"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownMetric = errors.New("unknown sort metric")
)

var nan = math.NaN()
