package scale

import (
	"fmt"
	"math"
)

// Radial lays k axes out evenly around a full turn.
type Radial struct {
	k     int
	slice float64
}

// NewRadial builds a radial layout for k axes.
func NewRadial(k int) (Radial, error) {
	if k <= 0 {
		return Radial{}, fmt.Errorf("%w: %d", ErrInvalidAxisCount, k)
	}
	return Radial{k: k, slice: 2 * math.Pi / float64(k)}, nil
}

// Axes returns the number of axes.
func (r Radial) Axes() int { return r.k }

// Angle returns the clockwise angle of axis i in radians, measured from 12 o'clock.
func (r Radial) Angle(i int) float64 {
	return r.slice * float64(i)
}

// Point returns the planar offset of radius along axis i, with y growing
// downwards as in screen space. Axis 0 points straight up.
func (r Radial) Point(i int, radius float64) (x, y float64) {
	a := r.Angle(i) - math.Pi/2
	return math.Cos(a) * radius, math.Sin(a) * radius
}

// Polygon returns the closed outline through values, one per axis, scaled by
// radius. Missing values collapse onto the centre.
func (r Radial) Polygon(values []float64, radius Scale) [][2]float64 {
	n := min(len(values), r.k)
	out := make([][2]float64, 0, n)
	for i := 0; i < n; i++ {
		v := values[i]
		if !finite(v) {
			v = 0
		}
		x, y := r.Point(i, radius.Map(v))
		out = append(out, [2]float64{x, y})
	}
	return out
}
