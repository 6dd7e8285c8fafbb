package scale

import (
	"fmt"
	"math"
)

// Log maps a strictly positive domain logarithmically onto a range.
type Log struct {
	lin    Linear
	domain Interval
}

// NewLog builds a log scale. A zero, negative or non-finite domain bound is a
// fatal input error; callers must substitute a positive minimum first.
func NewLog(domain, rng Interval) (Log, error) {
	if !finite(domain[0]) || !finite(domain[1]) {
		return Log{}, fmt.Errorf("%w: [%v, %v]", ErrNonFiniteDomain, domain[0], domain[1])
	}
	if domain[0] <= 0 || domain[1] <= 0 {
		return Log{}, fmt.Errorf("%w: [%v, %v]", ErrNonPositiveDomain, domain[0], domain[1])
	}
	return Log{
		lin:    NewLinear(Interval{math.Log(domain[0]), math.Log(domain[1])}, rng),
		domain: domain,
	}, nil
}

// Map returns the coordinate of v, or NaN when v is not positive.
func (l Log) Map(v float64) float64 {
	if !(v > 0) {
		return math.NaN()
	}
	return l.lin.Map(math.Log(v))
}

// Domain returns the domain interval.
func (l Log) Domain() Interval { return l.domain }

// Range returns the range interval.
func (l Log) Range() Interval { return l.lin.Range() }
