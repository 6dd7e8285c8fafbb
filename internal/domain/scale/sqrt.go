package scale

import (
	"fmt"
	"math"
)

// Sqrt maps a non-negative domain through a square root, so rendered areas
// rather than radii stay proportional to the value.
type Sqrt struct {
	lin    Linear
	domain Interval
}

// NewSqrt builds a square-root scale over a non-negative domain.
func NewSqrt(domain, rng Interval) (Sqrt, error) {
	if !finite(domain[0]) || !finite(domain[1]) {
		return Sqrt{}, fmt.Errorf("%w: [%v, %v]", ErrNonFiniteDomain, domain[0], domain[1])
	}
	if domain[0] < 0 || domain[1] < 0 {
		return Sqrt{}, fmt.Errorf("%w: [%v, %v]", ErrNegativeDomain, domain[0], domain[1])
	}
	return Sqrt{
		lin:    NewLinear(Interval{math.Sqrt(domain[0]), math.Sqrt(domain[1])}, rng),
		domain: domain,
	}, nil
}

// Map returns the coordinate of v. Negative values keep their sign.
func (s Sqrt) Map(v float64) float64 {
	if v < 0 {
		return s.lin.Map(-math.Sqrt(-v))
	}
	return s.lin.Map(math.Sqrt(v))
}

// Domain returns the domain interval.
func (s Sqrt) Domain() Interval { return s.domain }

// Range returns the range interval.
func (s Sqrt) Range() Interval { return s.lin.Range() }
