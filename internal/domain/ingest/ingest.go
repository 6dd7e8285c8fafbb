// Package ingest converts raw delimited text into typed university records.
//
// Parsing never fails on a malformed field: each field degrades to its
// documented fallback (NaN for pillar scores and rank, 0 for fields with a
// default) and the row is kept. Only an unreadable source is an error.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/unirank/internal/domain/model"
)

// Column names of the input table header.
const (
	ColWorldRank                = "world_rank"
	ColUniversityName           = "university_name"
	ColCountry                  = "country"
	ColTeaching                 = "teaching"
	ColInternational            = "international"
	ColResearch                 = "research"
	ColCitations                = "citations"
	ColIncome                   = "income"
	ColTotalScore               = "total_score"
	ColNumStudents              = "num_students"
	ColStudentStaffRatio        = "student_staff_ratio"
	ColInternationalStudentsPct = "international_students"
	ColFemaleMaleRatio          = "female_male_ratio"
	ColYear                     = "year"
)

// ctxCheckEvery bounds how many rows are read between cancellation checks.
const ctxCheckEvery = 1024

const utf8BOM = "\ufeff"

// Row is one raw input row keyed by header name.
type Row map[string]string

// Stats summarizes an ingestion pass.
type Stats struct {
	Rows int
	// Degraded counts, per column, the fields that fell back to NaN or 0.
	Degraded map[string]int
}

// DegradedTotal returns the number of degraded fields across all columns.
func (s Stats) DegradedTotal() int {
	total := 0
	for _, n := range s.Degraded {
		total += n
	}
	return total
}

// Load reads and parses a whole table.
func Load(ctx context.Context, r io.Reader) ([]model.UniversityRecord, Stats, error) {
	rows, err := ReadRows(ctx, r)
	if err != nil {
		return nil, Stats{}, err
	}
	records, stats := ParseWithStats(rows)
	return records, stats, nil
}

// ReadRows reads delimited text whose first row names the fields.
// Short rows read their missing trailing fields as empty strings.
func ReadRows(ctx context.Context, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrHeader)
		}
		return nil, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		keys[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read rows: %w", err)
			}
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		row := make(Row, len(keys))
		for i, k := range keys {
			if i < len(fields) {
				row[k] = fields[i]
			} else {
				row[k] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Parse converts raw rows into records. It never drops a row.
func Parse(rows []Row) []model.UniversityRecord {
	records, _ := ParseWithStats(rows)
	return records
}

// ParseWithStats is Parse that also reports per-column degradation counts.
func ParseWithStats(rows []Row) ([]model.UniversityRecord, Stats) {
	p := parser{degraded: make(map[string]int)}
	records := make([]model.UniversityRecord, len(rows))
	for i, row := range rows {
		records[i] = p.record(row)
	}
	return records, Stats{Rows: len(rows), Degraded: p.degraded}
}

type parser struct {
	degraded map[string]int
}

func (p *parser) record(row Row) model.UniversityRecord {
	return model.UniversityRecord{
		WorldRank:                p.orNaN(ColWorldRank, row[ColWorldRank]),
		UniversityName:           row[ColUniversityName],
		Country:                  row[ColCountry],
		Teaching:                 p.orNaN(ColTeaching, row[ColTeaching]),
		International:            p.orNaN(ColInternational, row[ColInternational]),
		Research:                 p.orNaN(ColResearch, row[ColResearch]),
		Citations:                p.orNaN(ColCitations, row[ColCitations]),
		Income:                   p.orNaN(ColIncome, row[ColIncome]),
		TotalScore:               p.orZero(ColTotalScore, row[ColTotalScore]),
		NumStudents:              p.students(row[ColNumStudents]),
		StudentStaffRatio:        p.nonNegative(ColStudentStaffRatio, row[ColStudentStaffRatio]),
		InternationalStudentsPct: p.orZero(ColInternationalStudentsPct, strings.TrimSuffix(strings.TrimSpace(row[ColInternationalStudentsPct]), "%")),
		FemaleMaleRatio:          strings.TrimSpace(row[ColFemaleMaleRatio]),
		Year:                     p.year(row[ColYear]),
	}
}

// orNaN parses a field with no documented default.
func (p *parser) orNaN(col, raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		p.degraded[col]++
		return math.NaN()
	}
	return v
}

// orZero parses a field whose documented fallback is 0.
func (p *parser) orZero(col, raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		p.degraded[col]++
		return 0
	}
	return v
}

func (p *parser) nonNegative(col, raw string) float64 {
	v := p.orZero(col, raw)
	if v < 0 {
		p.degraded[col]++
		return 0
	}
	return v
}

func (p *parser) students(raw string) int {
	v := p.orZero(ColNumStudents, strings.ReplaceAll(raw, ",", ""))
	if v < 0 || v > math.MaxInt32 {
		p.degraded[ColNumStudents]++
		return 0
	}
	return int(math.Round(v))
}

func (p *parser) year(raw string) int {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.degraded[ColYear]++
		return 0
	}
	return y
}

// parseNumber accepts finite decimal numbers only. Inf, NaN and hex floats
// are rejected so callers apply their missing-value fallback instead.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
