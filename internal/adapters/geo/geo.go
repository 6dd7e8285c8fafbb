// Package geo loads country boundaries and joins them with per-country values
// for the choropleth map.
package geo

import (
	"fmt"
	"math"
	"os"
	"sort"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/okian/unirank/internal/domain/alias"
	"github.com/okian/unirank/internal/domain/scale"
)

// NameProperty is the feature property holding the English country name.
const NameProperty = "name"

// Boundary is one country outline in lon/lat degrees.
type Boundary struct {
	Name     string
	Polygons [][][][]float64 // polygon -> ring -> position -> [lon, lat]
}

// LoadBoundaries decodes a GeoJSON FeatureCollection. Features that are not
// polygons are kept with no outline so they still show up as unmatched.
func LoadBoundaries(data []byte) ([]Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBoundaries, err)
	}
	out := make([]Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		b := Boundary{Name: f.PropertyMustString(NameProperty, "")}
		if g := f.Geometry; g != nil {
			switch {
			case g.IsPolygon():
				b.Polygons = [][][][]float64{g.Polygon}
			case g.IsMultiPolygon():
				b.Polygons = g.MultiPolygon
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// LoadBoundariesFile reads and decodes path.
func LoadBoundariesFile(path string) ([]Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBoundaries, err)
	}
	return LoadBoundaries(data)
}

// Fill is the choropleth rendering of one boundary.
type Fill struct {
	Name        string
	Value       float64 // NaN when unmatched
	Color       string
	Matched     bool
	Rings       [][][2]float64 // projected outline rings
	Centroid    [2]float64
	HasCentroid bool
}

// Result is the outcome of a join.
type Result struct {
	Fills []Fill
	// Unmatched lists summary countries no boundary carries, sorted.
	Unmatched []string
}

// Join colors every boundary by its value in summary, keyed by canonical
// country name. Boundary names are resolved with resolver before the lookup,
// so both sides meet on the canonical spelling; a nil resolver uses the
// built-in table. Boundaries without a value get scale.NeutralColor. Outlines
// and centroids are projected with proj.
func Join(boundaries []Boundary, summary map[string]float64, resolver *alias.Resolver, color scale.Color, proj scale.Mercator) Result {
	fills := make([]Fill, len(boundaries))
	seen := make(map[string]struct{}, len(boundaries))
	for i, b := range boundaries {
		canonical := resolver.Normalize(b.Name)
		seen[canonical] = struct{}{}
		f := Fill{Name: b.Name, Value: math.NaN(), Color: scale.NeutralColor}
		if v, ok := summary[canonical]; ok {
			f.Value, f.Matched, f.Color = v, true, color.Hex(v)
		}
		f.Rings, f.Centroid, f.HasCentroid = project(b, proj)
		fills[i] = f
	}

	var unmatched []string
	for country := range summary {
		if _, ok := seen[country]; !ok {
			unmatched = append(unmatched, country)
		}
	}
	sort.Strings(unmatched)
	return Result{Fills: fills, Unmatched: unmatched}
}

// project returns the projected rings of b and the area-weighted centroid
// of its projected outline.
func project(b Boundary, proj scale.Mercator) ([][][2]float64, [2]float64, bool) {
	var rings [][][2]float64
	mp := make(orb.MultiPolygon, 0, len(b.Polygons))
	for _, polygon := range b.Polygons {
		p := make(orb.Polygon, 0, len(polygon))
		for _, ring := range polygon {
			projected := proj.ProjectRing(ring)
			if len(projected) == 0 {
				continue
			}
			rings = append(rings, projected)
			r := make(orb.Ring, len(projected))
			for i, xy := range projected {
				r[i] = orb.Point{xy[0], xy[1]}
			}
			p = append(p, r)
		}
		if len(p) > 0 {
			mp = append(mp, p)
		}
	}
	if len(mp) == 0 {
		return rings, [2]float64{}, false
	}
	c, area := planar.CentroidArea(mp)
	if area == 0 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return rings, [2]float64{}, false
	}
	return rings, [2]float64{c[0], c[1]}, true
}
