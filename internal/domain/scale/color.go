package scale

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Choropleth defaults: a light-to-dark blue ramp over mean ranks 0..100.
const (
	DefaultLowColor  = "#e0f3f8"
	DefaultHighColor = "#084081"

	// NeutralColor fills countries with no value.
	NeutralColor = "#cccccc"
)

// Color interpolates between two colors in RGB over a domain, clamped at both ends.
type Color struct {
	t    Linear
	low  colorful.Color
	high colorful.Color
}

// NewColor builds a color ramp from low to high hex colors over domain.
func NewColor(domain Interval, low, high string) (Color, error) {
	if !finite(domain[0]) || !finite(domain[1]) {
		return Color{}, fmt.Errorf("%w: [%v, %v]", ErrNonFiniteDomain, domain[0], domain[1])
	}
	lo, err := colorful.Hex(low)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, low, err)
	}
	hi, err := colorful.Hex(high)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, high, err)
	}
	return Color{
		t:    NewLinear(domain, Interval{0, 1}, WithClamp()),
		low:  lo,
		high: hi,
	}, nil
}

// DefaultChoropleth returns the map ramp over mean ranks 0..100.
func DefaultChoropleth() Color {
	c, err := NewColor(Interval{0, 100}, DefaultLowColor, DefaultHighColor)
	if err != nil {
		panic(err) // constants above are valid
	}
	return c
}

// Hex returns the color of v as "#rrggbb". Non-finite values get NeutralColor.
func (c Color) Hex(v float64) string {
	if !finite(v) {
		return NeutralColor
	}
	return c.low.BlendRgb(c.high, c.t.Map(v)).Clamped().Hex()
}
