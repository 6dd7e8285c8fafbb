// Package types contains the JSON view types handed to chart renderers.
//
// encoding/json cannot represent NaN, so every value that may be missing is a
// *float64 and encodes as null.
package types

import (
	"math"
	"strconv"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
)

// Num returns v as a JSON number, or nil when v is NaN or infinite.
func Num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Record is a university record as rendered by the tables and charts.
type Record struct {
	WorldRank                *float64 `json:"world_rank"`
	UniversityName           string   `json:"university_name"`
	Country                  string   `json:"country"`
	Teaching                 *float64 `json:"teaching"`
	International            *float64 `json:"international"`
	Research                 *float64 `json:"research"`
	Citations                *float64 `json:"citations"`
	Income                   *float64 `json:"income"`
	TotalScore               *float64 `json:"total_score"`
	NumStudents              int      `json:"num_students"`
	StudentStaffRatio        *float64 `json:"student_staff_ratio"`
	InternationalStudentsPct *float64 `json:"international_students"`
	FemaleMaleRatio          string   `json:"female_male_ratio"`
	Year                     int      `json:"year"`
}

// FromRecord converts a parsed record.
func FromRecord(r model.UniversityRecord) Record {
	return Record{
		WorldRank:                Num(r.WorldRank),
		UniversityName:           r.UniversityName,
		Country:                  r.Country,
		Teaching:                 Num(r.Teaching),
		International:            Num(r.International),
		Research:                 Num(r.Research),
		Citations:                Num(r.Citations),
		Income:                   Num(r.Income),
		TotalScore:               Num(r.TotalScore),
		NumStudents:              r.NumStudents,
		StudentStaffRatio:        Num(r.StudentStaffRatio),
		InternationalStudentsPct: Num(r.InternationalStudentsPct),
		FemaleMaleRatio:          r.FemaleMaleRatio,
		Year:                     r.Year,
	}
}

// FromRecords converts a view. The result is never nil so it encodes as [].
func FromRecords(rs []model.UniversityRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = FromRecord(r)
	}
	return out
}

// Selection echoes the resolved selection a view was computed for.
type Selection struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Metric  string `json:"metric"`
}

// FromSelection converts a selection.
func FromSelection(s model.Selection) Selection {
	return Selection{Country: s.Country, Year: s.Year, Metric: string(s.SortMetric)}
}

// MetricOption is one entry of the sort metric selector.
type MetricOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Options populates the selectors of the dashboard.
type Options struct {
	Countries []string       `json:"countries"`
	MinYear   int            `json:"min_year"`
	MaxYear   int            `json:"max_year"`
	Metrics   []MetricOption `json:"metrics"`
	Default   Selection      `json:"default"`
}

// YearAverage is one point of the trend line.
type YearAverage struct {
	Year           int     `json:"year"`
	MeanTotalScore float64 `json:"mean_total_score"`
}

// FromYearAverages converts a trend series.
func FromYearAverages(in []model.YearAverage) []YearAverage {
	out := make([]YearAverage, len(in))
	for i, a := range in {
		out[i] = YearAverage(a)
	}
	return out
}

// GenderShare is one bar of the gender diversity chart. Female is null and
// Label is "N/A" when the ratio could not be read.
type GenderShare struct {
	UniversityName string   `json:"university_name"`
	Female         *float64 `json:"female"`
	Label          string   `json:"label"`
}

// FromGenderShares converts the gender view.
func FromGenderShares(in []aggregate.GenderShare) []GenderShare {
	out := make([]GenderShare, len(in))
	for i, g := range in {
		out[i] = GenderShare{UniversityName: g.UniversityName, Label: "N/A"}
		if g.OK {
			out[i].Female = Num(g.Female)
			out[i].Label = formatPercent(g.Female)
		}
	}
	return out
}

// Axis is one spoke of the profile radar chart.
type Axis struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Profile is the radar chart of a single university.
type Profile struct {
	UniversityName string       `json:"university_name"`
	Axes           []Axis       `json:"axes"`
	Outline        [][2]float64 `json:"outline"`
	// Levels are the axis values of the radar grid rings.
	Levels []float64 `json:"levels"`
}

// Split is the international student pie.
type Split struct {
	UniversityName string  `json:"university_name"`
	International  float64 `json:"international"`
	Domestic       float64 `json:"domestic"`
}

// Domain is the value extent a renderer derives a scale from.
type Domain struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// NewDomain returns the domain [lo, hi], or nulls when ok is false.
func NewDomain(lo, hi float64, ok bool) Domain {
	if !ok {
		return Domain{}
	}
	return Domain{Min: Num(lo), Max: Num(hi)}
}

// Bubble is one point of the student-count versus ratio bubble chart.
type Bubble struct {
	UniversityName string  `json:"university_name"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	R              float64 `json:"r"`
}

// Views bundles every view derived from one selection.
type Views struct {
	Selection     Selection     `json:"selection"`
	Filtered      []Record      `json:"filtered"`
	Top           []Record      `json:"top"`
	Gender        []GenderShare `json:"gender"`
	Profile       *Profile      `json:"profile"`
	International *Split        `json:"international"`
	Bubbles       []Bubble      `json:"bubbles"`
	StudentDomain Domain        `json:"student_domain"`
	RatioDomain   Domain        `json:"ratio_domain"`
	RatioTicks    []float64     `json:"ratio_ticks"`
}

// CountryValue is one entry of the country rank summary.
type CountryValue struct {
	Country  string  `json:"country"`
	MeanRank float64 `json:"mean_rank"`
	Color    string  `json:"color"`
}

// Fill is one boundary feature of the choropleth.
type Fill struct {
	Name     string         `json:"name"`
	Value    *float64       `json:"value"`
	Color    string         `json:"color"`
	Matched  bool           `json:"matched"`
	Rings    [][][2]float64 `json:"rings"`
	Centroid *[2]float64    `json:"centroid"`
}

// Map is the choropleth view.
type Map struct {
	Selection Selection      `json:"selection"`
	Summary   []CountryValue `json:"summary"`
	Fills     []Fill         `json:"fills"`
	Unmatched []string       `json:"unmatched"`
}

// Trend is the all-years line chart of one country selector.
// YDomain always starts at 0 and ends at the highest mean, or 100 when
// there is none. YTicks are round values across YDomain.
type Trend struct {
	Country string        `json:"country"`
	Points  []YearAverage `json:"points"`
	YDomain Domain        `json:"y_domain"`
	YTicks  []float64     `json:"y_ticks"`
}

// Stats describes the loaded base table.
type Stats struct {
	Loaded    bool           `json:"loaded"`
	LoadID    string         `json:"load_id,omitempty"`
	Rows      int            `json:"rows"`
	Records   int            `json:"records"`
	Degraded  map[string]int `json:"degraded"`
	Countries int            `json:"countries"`
	Features  int            `json:"boundary_features"`
}

func formatPercent(share float64) string {
	return strconv.Itoa(int(math.Round(share*100))) + "%"
}
