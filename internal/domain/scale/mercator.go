package scale

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Mercator defaults sized for the 600x350 world map.
const (
	DefaultMapWidth  = 600.0
	DefaultMapHeight = 350.0
	DefaultMapScale  = 100.0

	// maxLatitude is the Web-Mercator latitude limit.
	maxLatitude = 85.05112878
)

// Mercator projects longitude/latitude onto the plane with the conformal
// Web-Mercator projection from orb, then scales and translates the result.
// Scale is in pixels per radian; y grows downwards.
type Mercator struct {
	scale      float64
	translateX float64
	translateY float64
}

// MercatorOption configures a Mercator projection.
type MercatorOption func(*Mercator)

// WithMapScale sets the pixels-per-radian scale. Non-positive values are ignored.
func WithMapScale(s float64) MercatorOption {
	return func(m *Mercator) {
		if s > 0 && finite(s) {
			m.scale = s
		}
	}
}

// WithTranslate sets where longitude 0, latitude 0 lands.
func WithTranslate(x, y float64) MercatorOption {
	return func(m *Mercator) {
		if finite(x) && finite(y) {
			m.translateX, m.translateY = x, y
		}
	}
}

// WithViewport centres the projection for a width x height map, putting the
// equator at height/1.4 so the sparsely ranked far south gets less room.
func WithViewport(width, height float64) MercatorOption {
	return WithTranslate(width/2, height/1.4)
}

// NewMercator builds a projection, by default scale 100 in a 600x350 viewport.
func NewMercator(opts ...MercatorOption) Mercator {
	m := Mercator{scale: DefaultMapScale}
	WithViewport(DefaultMapWidth, DefaultMapHeight)(&m)
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Project maps lon/lat degrees to planar coordinates.
func (m Mercator) Project(lon, lat float64) (x, y float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	k := m.scale / orb.EarthRadius
	return m.translateX + p[0]*k, m.translateY - p[1]*k
}

// ProjectRing projects a GeoJSON-style ring of [lon, lat] positions.
// Positions with fewer than two coordinates are skipped.
func (m Mercator) ProjectRing(ring [][]float64) [][2]float64 {
	out := make([][2]float64, 0, len(ring))
	for _, pos := range ring {
		if len(pos) < 2 {
			continue
		}
		x, y := m.Project(pos[0], pos[1])
		out = append(out, [2]float64{x, y})
	}
	return out
}
