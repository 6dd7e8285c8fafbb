// Package model contains domain models passed between layers.
package model

import "math"

// AllCountries is the country selector sentinel that matches every record.
const AllCountries = "All"

// UniversityRecord is one parsed (university, year) observation.
// Values are never mutated after parsing; pipeline stages copy them.
type UniversityRecord struct {
	WorldRank      float64 // integer-valued, NaN when the source rank was not numeric ("=39", "201-250")
	UniversityName string
	Country        string

	// Pillar scores on a 0-100 scale, NaN when blank or malformed.
	Teaching      float64
	International float64
	Research      float64
	Citations     float64
	Income        float64

	TotalScore               float64 // 0 when unparsable
	NumStudents              int     // thousands separators stripped, 0 when unparsable
	StudentStaffRatio        float64 // 0 when unparsable
	InternationalStudentsPct float64 // 0 when unparsable
	FemaleMaleRatio          string  // "F : M" or empty
	Year                     int
}

// HasValidRank reports whether the world rank is a finite number.
func (r UniversityRecord) HasValidRank() bool {
	return isFinite(r.WorldRank)
}

// HasValidTotalScore reports whether the total score is a finite number.
func (r UniversityRecord) HasValidTotalScore() bool {
	return isFinite(r.TotalScore)
}

// Selection is the user-chosen (country, year, metric) triple driving all
// derived views. It is owned by the caller and never mutated by the pipeline.
type Selection struct {
	Country    string
	Year       int
	SortMetric Metric
}

// YearAverage is one point of the yearly trend series.
type YearAverage struct {
	Year           int
	MeanTotalScore float64
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
