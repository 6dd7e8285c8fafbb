package geo_test

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/unirank/internal/adapters/geo"
	"github.com/okian/unirank/internal/domain/alias"
	"github.com/okian/unirank/internal/domain/scale"
)

func loadSample(t *testing.T) []geo.Boundary {
	t.Helper()
	b, err := geo.LoadBoundariesFile(filepath.Join("testdata", "world_sample.geojson"))
	if err != nil {
		t.Fatalf("load boundaries: %v", err)
	}
	return b
}

func TestLoadBoundaries(t *testing.T) {
	Convey("Given the sample boundary source", t, func() {
		boundaries := loadSample(t)

		Convey("Then every feature is kept with its name", func() {
			So(boundaries, ShouldHaveLength, 5)
			So(boundaries[0].Name, ShouldEqual, "United States of America")
			So(boundaries[2].Name, ShouldEqual, "Korea, Republic of")
		})

		Convey("And polygons and multipolygons both become polygon lists", func() {
			So(boundaries[0].Polygons, ShouldHaveLength, 1)
			So(boundaries[1].Polygons, ShouldHaveLength, 2)
		})

		Convey("And non-polygon features have no outline", func() {
			So(boundaries[4].Name, ShouldEqual, "Null Island")
			So(boundaries[4].Polygons, ShouldBeEmpty)
		})
	})

	Convey("Given malformed input", t, func() {
		_, err := geo.LoadBoundaries([]byte(`{"type": "FeatureCollection", "features": [`))
		So(errors.Is(err, geo.ErrBoundaries), ShouldBeTrue)
	})

	Convey("Given a missing file", t, func() {
		_, err := geo.LoadBoundariesFile(filepath.Join("testdata", "nope.geojson"))
		So(errors.Is(err, geo.ErrBoundaries), ShouldBeTrue)
	})

	Convey("Given a feature without a name", t, func() {
		b, err := geo.LoadBoundaries([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":null}]}`))
		So(err, ShouldBeNil)
		So(b, ShouldHaveLength, 1)
		So(b[0].Name, ShouldEqual, "")
	})
}

func TestJoin(t *testing.T) {
	Convey("Given boundaries and a country rank summary", t, func() {
		boundaries := loadSample(t)
		summary := map[string]float64{
			"United States of America": 20,
			"Korea, Republic of":       100,
			"Canada":                   60,
			"Atlantis":                 5,
			"Narnia":                   50,
		}
		color := scale.DefaultChoropleth()
		proj := scale.NewMercator()

		res := geo.Join(boundaries, summary, nil, color, proj)

		Convey("Then there is one fill per boundary in source order", func() {
			So(res.Fills, ShouldHaveLength, len(boundaries))
			for i, f := range res.Fills {
				So(f.Name, ShouldEqual, boundaries[i].Name)
			}
		})

		Convey("And matched boundaries take the ramp color of their value", func() {
			us := res.Fills[0]
			So(us.Matched, ShouldBeTrue)
			So(us.Value, ShouldEqual, 20)
			So(us.Color, ShouldEqual, color.Hex(20))
			So(res.Fills[2].Color, ShouldEqual, scale.DefaultHighColor)
		})

		Convey("And boundaries without a value are neutral", func() {
			antarctica := res.Fills[3]
			So(antarctica.Matched, ShouldBeFalse)
			So(math.IsNaN(antarctica.Value), ShouldBeTrue)
			So(antarctica.Color, ShouldEqual, scale.NeutralColor)
		})

		Convey("And summary countries with no boundary are reported sorted", func() {
			So(res.Unmatched, ShouldResemble, []string{"Atlantis", "Narnia"})
		})

		Convey("And outlines are projected with centroids inside them", func() {
			us := res.Fills[0]
			So(us.Rings, ShouldHaveLength, 1)
			So(us.Rings[0], ShouldHaveLength, 5)
			So(us.HasCentroid, ShouldBeTrue)

			west, north := proj.Project(-120, 45)
			east, south := proj.Project(-80, 30)
			So(us.Centroid[0], ShouldBeBetween, west, east)
			So(us.Centroid[1], ShouldBeBetween, north, south)

			So(res.Fills[1].Rings, ShouldHaveLength, 2)
			So(res.Fills[1].HasCentroid, ShouldBeTrue)
		})

		Convey("And features with no outline have no centroid", func() {
			So(res.Fills[4].Rings, ShouldBeEmpty)
			So(res.Fills[4].HasCentroid, ShouldBeFalse)
		})
	})

	Convey("Given an empty summary", t, func() {
		res := geo.Join(loadSample(t), nil, nil, scale.DefaultChoropleth(), scale.NewMercator())

		Convey("Then nothing matches and nothing is unmatched", func() {
			for _, f := range res.Fills {
				So(f.Matched, ShouldBeFalse)
			}
			So(res.Unmatched, ShouldBeEmpty)
		})
	})

	Convey("Given boundaries named with ranking-table spellings", t, func() {
		boundaries := []geo.Boundary{
			{Name: "Russia", Polygons: [][][][]float64{{{{40, 50}, {60, 50}, {60, 60}, {40, 60}, {40, 50}}}}},
			{Name: "South Korea", Polygons: [][][][]float64{{{{126, 34}, {129, 34}, {129, 38}, {126, 38}, {126, 34}}}}},
		}
		summary := map[string]float64{
			"Russian Federation": 40,
			"Korea, Republic of": 100,
		}
		color := scale.DefaultChoropleth()

		Convey("When joining with the built-in aliases", func() {
			res := geo.Join(boundaries, summary, nil, color, scale.NewMercator())

			Convey("Then both boundaries meet their canonical summary entries", func() {
				So(res.Fills[0].Name, ShouldEqual, "Russia")
				So(res.Fills[0].Matched, ShouldBeTrue)
				So(res.Fills[0].Value, ShouldEqual, 40)
				So(res.Fills[1].Matched, ShouldBeTrue)
				So(res.Fills[1].Color, ShouldEqual, scale.DefaultHighColor)
				So(res.Unmatched, ShouldBeEmpty)
			})
		})

		Convey("When joining with a resolver carrying extra aliases", func() {
			resolver := alias.New(alias.WithExtra(map[string]string{"Rossiya": "Russian Federation"}))
			renamed := []geo.Boundary{{Name: "Rossiya"}, boundaries[1]}
			res := geo.Join(renamed, summary, resolver, color, scale.NewMercator())

			Convey("Then the extra alias is applied to boundary names too", func() {
				So(res.Fills[0].Matched, ShouldBeTrue)
				So(res.Fills[1].Matched, ShouldBeTrue)
				So(res.Unmatched, ShouldBeEmpty)
			})
		})
	})
}
