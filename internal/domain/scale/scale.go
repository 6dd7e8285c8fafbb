// Package scale maps domain values into rendering coordinates.
//
// Every constructor is pure: building a scale twice from the same arguments
// yields scales with identical output, and no scale holds mutable state.
// Charts share these types instead of carrying their own mapping code.
package scale

import (
	"errors"
	"math"
)

// Sentinel error kinds for this package.
var (
	ErrNonFiniteDomain   = errors.New("scale domain must be finite")
	ErrNonPositiveDomain = errors.New("log scale domain must be strictly positive")
	ErrNegativeDomain    = errors.New("sqrt scale domain must be non-negative")
	ErrInvalidAxisCount  = errors.New("radial scale needs at least one axis")
	ErrInvalidColor      = errors.New("invalid color")
)

// Scale maps a domain value to a coordinate.
type Scale interface {
	Map(v float64) float64
}

// Interval is a closed [lo, hi] pair. lo may exceed hi for inverted ranges.
type Interval [2]float64

// Linear maps a contiguous domain onto a contiguous range.
// It extrapolates outside the domain unless built WithClamp.
type Linear struct {
	domain Interval
	rng    Interval
	clamp  bool
}

// LinearOption configures a Linear scale.
type LinearOption func(*Linear)

// WithClamp clamps output to the range bounds.
func WithClamp() LinearOption {
	return func(l *Linear) {
		l.clamp = true
	}
}

// NewLinear builds a linear scale.
func NewLinear(domain, rng Interval, opts ...LinearOption) Linear {
	l := Linear{domain: domain, rng: rng}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Map returns the coordinate of v. A degenerate domain maps to the range midpoint.
func (l Linear) Map(v float64) float64 {
	t := normalize(l.domain[0], l.domain[1], v)
	if l.clamp {
		t = clamp01(t)
	}
	return lerp(l.rng[0], l.rng[1], t)
}

// Domain returns the domain interval.
func (l Linear) Domain() Interval { return l.domain }

// Range returns the range interval.
func (l Linear) Range() Interval { return l.rng }

// Ticks returns about count round values spanning the domain.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.domain[0], l.domain[1], count)
}

func normalize(a, b, v float64) float64 {
	if b-a == 0 {
		return 0.5
	}
	return (v - a) / (b - a)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
