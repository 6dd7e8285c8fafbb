package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/unirank/internal/domain/model"
)

// DefaultGenderRows is how many records the gender diversity view shows.
const DefaultGenderRows = 5

// GenderShare is the female share of one university's student body.
type GenderShare struct {
	UniversityName string
	Female         float64 // f / (f + m), 0 when !OK
	OK             bool    // false renders as "N/A"
}

// GenderShares returns the female share of the first n records of view.
// n <= 0 means DefaultGenderRows.
func GenderShares(view []model.UniversityRecord, n int) []GenderShare {
	if n <= 0 {
		n = DefaultGenderRows
	}
	n = min(n, len(view))
	out := make([]GenderShare, n)
	for i, r := range view[:n] {
		share, ok := FemaleShare(r.FemaleMaleRatio)
		out[i] = GenderShare{UniversityName: r.UniversityName, Female: share, OK: ok}
	}
	return out
}

// FemaleShare parses an "F : M" ratio. Both sides must be positive numbers.
func FemaleShare(ratio string) (float64, bool) {
	fs, ms, found := strings.Cut(ratio, ":")
	if !found {
		return 0, false
	}
	f, errF := strconv.ParseFloat(strings.TrimSpace(fs), 64)
	m, errM := strconv.ParseFloat(strings.TrimSpace(ms), 64)
	if errF != nil || errM != nil || !(f > 0) || !(m > 0) || math.IsInf(f+m, 0) {
		return 0, false
	}
	return f / (f + m), true
}

// ProfileAxes are the radar chart axes, in drawing order.
var ProfileAxes = []string{"teaching", "research", "citations", "income", "international"}

// Profile returns rec's pillar scores in ProfileAxes order. Missing scores stay NaN.
func Profile(rec model.UniversityRecord) []float64 {
	return []float64{rec.Teaching, rec.Research, rec.Citations, rec.Income, rec.International}
}

// Split is the international versus domestic share of a student body in percent.
type Split struct {
	International float64
	Domestic      float64
}

// InternationalSplit returns the pie slices for rec.
func InternationalSplit(rec model.UniversityRecord) Split {
	pct := rec.InternationalStudentsPct
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	pct = math.Max(0, math.Min(100, pct))
	return Split{International: pct, Domestic: 100 - pct}
}

// Extent returns the smallest and largest finite value. ok is false when none is finite.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}
