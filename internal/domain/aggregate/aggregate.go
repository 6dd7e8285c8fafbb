// Package aggregate computes the derived summaries behind the map and trend
// views. Means only ever count valid members: sum of valid values divided
// by the number of valid values.
package aggregate

import (
	"math"
	"sort"

	"github.com/okian/unirank/internal/domain/alias"
	"github.com/okian/unirank/internal/domain/model"
)

// DefaultRankFallback is the summary value of a country with no valid rank.
// It keeps the geographic join total: every country present gets a value.
const DefaultRankFallback = 100.0

// Option configures RankByCountry.
type Option func(*rankOptions)

type rankOptions struct {
	resolver *alias.Resolver
	fallback float64
}

// WithResolver sets the resolver used to group countries.
func WithResolver(r *alias.Resolver) Option {
	return func(o *rankOptions) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithRankFallback overrides DefaultRankFallback. Non-finite values are ignored.
func WithRankFallback(v float64) Option {
	return func(o *rankOptions) {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			o.fallback = v
		}
	}
}

// RankByCountry maps each normalized country to the mean world rank of its
// records with a valid rank. Countries without one get the fallback value.
func RankByCountry(records []model.UniversityRecord, opts ...Option) map[string]float64 {
	o := rankOptions{resolver: alias.Default(), fallback: DefaultRankFallback}
	for _, opt := range opts {
		opt(&o)
	}

	acc := make(map[string]*mean)
	for _, r := range records {
		key := o.resolver.Normalize(r.Country)
		m, ok := acc[key]
		if !ok {
			m = &mean{}
			acc[key] = m
		}
		m.add(r.WorldRank)
	}

	out := make(map[string]float64, len(acc))
	for country, m := range acc {
		if v, ok := m.value(); ok {
			out[country] = v
		} else {
			out[country] = o.fallback
		}
	}
	return out
}

// AverageScoreByYear returns the mean total score per year in ascending year
// order. A year without any valid score is omitted.
func AverageScoreByYear(records []model.UniversityRecord) []model.YearAverage {
	acc := make(map[int]*mean)
	for _, r := range records {
		m, ok := acc[r.Year]
		if !ok {
			m = &mean{}
			acc[r.Year] = m
		}
		m.add(r.TotalScore)
	}

	out := make([]model.YearAverage, 0, len(acc))
	for year, m := range acc {
		if v, ok := m.value(); ok {
			out = append(out, model.YearAverage{Year: year, MeanTotalScore: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// mean accumulates finite values only.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.sum += v
	m.count++
}

func (m *mean) value() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum / float64(m.count), true
}
