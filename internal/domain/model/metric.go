package model

import (
	"fmt"
	"strings"
)

// Metric names a sortable record field.
type Metric string

// Sortable metrics. The string values match the CSV column names.
const (
	MetricWorldRank     Metric = "world_rank"
	MetricIncome        Metric = "income"
	MetricTeaching      Metric = "teaching"
	MetricInternational Metric = "international"
	MetricResearch      Metric = "research"
)

// Metrics lists every sortable metric in selector order.
var Metrics = []Metric{
	MetricWorldRank,
	MetricIncome,
	MetricTeaching,
	MetricInternational,
	MetricResearch,
}

var metricLabels = map[Metric]string{
	MetricWorldRank:     "World Rank",
	MetricIncome:        "Income",
	MetricTeaching:      "Teaching",
	MetricInternational: "International Score",
	MetricResearch:      "Research Score",
}

// ParseMetric validates a metric name. Matching is case-insensitive.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := metricLabels[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Label returns the human-readable selector label.
func (m Metric) Label() string {
	return metricLabels[m]
}

// Ascending reports whether lower values rank better.
func (m Metric) Ascending() bool {
	return m == MetricWorldRank
}

// Value extracts the metric from a record. Unknown metrics yield NaN.
func (m Metric) Value(r UniversityRecord) float64 {
	switch m {
	case MetricWorldRank:
		return r.WorldRank
	case MetricIncome:
		return r.Income
	case MetricTeaching:
		return r.Teaching
	case MetricInternational:
		return r.International
	case MetricResearch:
		return r.Research
	default:
		return nan
	}
}
