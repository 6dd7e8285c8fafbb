// Package query filters and orders the base record set for a Selection.
//
// Every function is pure: inputs are never reordered or mutated and each call
// returns a freshly allocated slice the caller owns.
package query

import (
	"math"
	"slices"
	"sort"

	"github.com/okian/unirank/internal/domain/model"
)

// DefaultTopN is the top-N size used when a non-positive n is requested.
const DefaultTopN = 10

// Filter keeps records whose year equals year and whose country matches.
// The country "All" matches every record; otherwise matching is exact.
func Filter(records []model.UniversityRecord, country string, year int) []model.UniversityRecord {
	out := make([]model.UniversityRecord, 0, len(records))
	for _, r := range records {
		if r.Year == year && matchesCountry(r, country) {
			out = append(out, r)
		}
	}
	return out
}

// ByCountry keeps records of country across all years, in input order.
func ByCountry(records []model.UniversityRecord, country string) []model.UniversityRecord {
	out := make([]model.UniversityRecord, 0, len(records))
	for _, r := range records {
		if matchesCountry(r, country) {
			out = append(out, r)
		}
	}
	return out
}

// ForSelection is Filter driven by a Selection.
func ForSelection(records []model.UniversityRecord, sel model.Selection) []model.UniversityRecord {
	return Filter(records, sel.Country, sel.Year)
}

func matchesCountry(r model.UniversityRecord, country string) bool {
	return country == model.AllCountries || r.Country == country
}

// Sorted returns view ordered by metric: ascending for world rank, descending
// for every other metric. Ties keep input order and records whose metric is
// not finite always come last, also in input order.
func Sorted(view []model.UniversityRecord, metric model.Metric) []model.UniversityRecord {
	out := slices.Clone(view)
	asc := metric.Ascending()
	slices.SortStableFunc(out, func(a, b model.UniversityRecord) int {
		return compare(metric.Value(a), metric.Value(b), asc)
	})
	return out
}

// TopN returns at most n records of view ordered by metric. n <= 0 means DefaultTopN.
func TopN(view []model.UniversityRecord, metric model.Metric, n int) []model.UniversityRecord {
	if n <= 0 {
		n = DefaultTopN
	}
	sorted := Sorted(view, metric)
	if len(sorted) > n {
		sorted = sorted[:n:n]
	}
	return sorted
}

// compare is a total order over float64 with non-finite values last.
func compare(a, b float64, asc bool) int {
	fa, fb := finite(a), finite(b)
	switch {
	case !fa && !fb:
		return 0
	case !fa:
		return 1
	case !fb:
		return -1
	}
	if !asc {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Countries returns the distinct countries of records in lexical order.
func Countries(records []model.UniversityRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// YearRange returns the smallest and largest non-zero year in records.
// ok is false when no record carries a year.
func YearRange(records []model.UniversityRecord) (minYear, maxYear int, ok bool) {
	for _, r := range records {
		if r.Year == 0 {
			continue
		}
		if !ok {
			minYear, maxYear, ok = r.Year, r.Year, true
			continue
		}
		minYear = min(minYear, r.Year)
		maxYear = max(maxYear, r.Year)
	}
	return minYear, maxYear, ok
}

// DefaultSelection is the initial selection once data is loaded: every
// country, the latest year, ordered by world rank.
func DefaultSelection(records []model.UniversityRecord) model.Selection {
	_, latest, _ := YearRange(records)
	return model.Selection{
		Country:    model.AllCountries,
		Year:       latest,
		SortMetric: model.MetricWorldRank,
	}
}
