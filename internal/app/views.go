package service

import (
	"context"
	"sort"
	"time"

	"github.com/okian/unirank/internal/adapters/geo"
	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/internal/domain/scale"
	"github.com/okian/unirank/internal/domain/types"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// Chart geometry of the bubble and profile views, in pixels.
const (
	bubbleWidth     = 330.0
	bubbleHeight    = 240.0
	bubbleMinRadius = 2.0
	bubbleMaxRadius = 20.0

	profileRadius   = 100.0
	profileMaxValue = 100.0
	profileLevels   = 5

	axisTicks     = 5
	trendMaxScore = 100.0
)

// Query is a selection as received from a client. Zero fields take their
// defaults: all countries, the latest year and world rank order.
type Query struct {
	Country string
	Year    int
	Metric  string
	Limit   int
}

// Resolve turns q into a full selection over the loaded table.
func (s *Service) Resolve(ctx context.Context, q Query) (model.Selection, error) {
	records, err := s.table.Records(ctx)
	if err != nil {
		return model.Selection{}, err
	}
	return resolve(records, q)
}

func resolve(records []model.UniversityRecord, q Query) (model.Selection, error) {
	sel := query.DefaultSelection(records)
	if q.Country != "" {
		sel.Country = q.Country
	}
	if q.Year != 0 {
		sel.Year = q.Year
	}
	if q.Metric != "" {
		m, err := model.ParseMetric(q.Metric)
		if err != nil {
			return model.Selection{}, err
		}
		sel.SortMetric = m
	}
	return sel, nil
}

// Options returns the selector contents and the initial selection.
func (s *Service) Options(ctx context.Context) (types.Options, error) {
	start := time.Now()
	records, err := s.table.Records(ctx)
	if err != nil {
		return types.Options{}, err
	}

	minYear, maxYear, _ := query.YearRange(records)
	countries := append([]string{model.AllCountries}, query.Countries(records)...)
	opts := types.Options{
		Countries: countries,
		MinYear:   minYear,
		MaxYear:   maxYear,
		Metrics:   make([]types.MetricOption, len(model.Metrics)),
		Default:   types.FromSelection(query.DefaultSelection(records)),
	}
	for i, m := range model.Metrics {
		opts.Metrics[i] = types.MetricOption{Key: string(m), Label: m.Label()}
	}

	metrics.RecordViewCompute("options", elapsedMs(start))
	return opts, nil
}

// Views derives the filtered table and every per-selection chart view.
func (s *Service) Views(ctx context.Context, q Query) (types.Views, error) {
	start := time.Now()
	records, err := s.table.Records(ctx)
	if err != nil {
		return types.Views{}, err
	}
	sel, err := resolve(records, q)
	if err != nil {
		return types.Views{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.topN
	}

	filtered := query.ForSelection(records, sel)
	out := types.Views{
		Selection: types.FromSelection(sel),
		Filtered:  types.FromRecords(filtered),
		Top:       types.FromRecords(query.TopN(filtered, sel.SortMetric, limit)),
		Gender:    types.FromGenderShares(aggregate.GenderShares(filtered, aggregate.DefaultGenderRows)),
	}
	if len(filtered) > 0 {
		first := filtered[0]
		out.Profile = profile(first)
		split := aggregate.InternationalSplit(first)
		out.International = &types.Split{
			UniversityName: first.UniversityName,
			International:  split.International,
			Domestic:       split.Domestic,
		}
	}
	bubbles(filtered, &out)

	metrics.RecordViewCompute("views", elapsedMs(start))
	return out, nil
}

func profile(rec model.UniversityRecord) *types.Profile {
	values := aggregate.Profile(rec)
	p := &types.Profile{
		UniversityName: rec.UniversityName,
		Axes:           make([]types.Axis, len(values)),
	}
	for i, v := range values {
		p.Axes[i] = types.Axis{Name: aggregate.ProfileAxes[i], Value: types.Num(v)}
	}
	radial, err := scale.NewRadial(len(values))
	if err != nil {
		return p
	}
	radius := scale.NewLinear(scale.Interval{0, profileMaxValue}, scale.Interval{0, profileRadius})
	p.Outline = radial.Polygon(values, radius)
	p.Levels = radius.Ticks(profileLevels)
	return p
}

// bubbles places each record by student count (log x), student-staff ratio
// (linear y, inverted for screen space) and international share (sqrt radius),
// and fills the axis domains and ratio ticks of out.
// Zero student counts are drawn at 1 so the log scale stays defined.
func bubbles(view []model.UniversityRecord, out *types.Views) {
	out.Bubbles = make([]types.Bubble, 0, len(view))
	out.RatioTicks = []float64{}
	if len(view) == 0 {
		return
	}

	students := make([]float64, len(view))
	ratios := make([]float64, len(view))
	intl := make([]float64, len(view))
	for i, r := range view {
		students[i] = orOne(float64(r.NumStudents))
		ratios[i] = orOne(r.StudentStaffRatio)
		intl[i] = r.InternationalStudentsPct
	}
	sLo, sHi, sOK := aggregate.Extent(students)
	_, rHi, rOK := aggregate.Extent(ratios)
	_, iHi, _ := aggregate.Extent(intl)

	x, err := scale.NewLog(scale.Interval{sLo, sHi}, scale.Interval{0, bubbleWidth})
	if err != nil {
		return
	}
	y := scale.NewLinear(scale.Interval{0, rHi}, scale.Interval{bubbleHeight, 0})
	r, err := scale.NewSqrt(scale.Interval{0, max(iHi, 0)}, scale.Interval{bubbleMinRadius, bubbleMaxRadius})
	if err != nil {
		return
	}

	for i, rec := range view {
		out.Bubbles = append(out.Bubbles, types.Bubble{
			UniversityName: rec.UniversityName,
			X:              x.Map(students[i]),
			Y:              y.Map(rec.StudentStaffRatio),
			R:              r.Map(max(rec.InternationalStudentsPct, 0)),
		})
	}
	out.StudentDomain = types.NewDomain(sLo, sHi, sOK)
	out.RatioDomain = types.NewDomain(0, rHi, rOK)
	if ticks := y.Ticks(axisTicks); ticks != nil {
		out.RatioTicks = ticks
	}
}

func orOne(v float64) float64 {
	if v > 0 {
		return v
	}
	return 1
}

// Map returns the per-country mean rank of the selection and, when a boundary
// source is loaded, the colored boundaries. The sort metric is ignored.
func (s *Service) Map(ctx context.Context, q Query) (types.Map, error) {
	start := time.Now()
	records, err := s.table.Records(ctx)
	if err != nil {
		return types.Map{}, err
	}
	sel, err := resolve(records, q)
	if err != nil {
		return types.Map{}, err
	}

	filtered := query.ForSelection(records, sel)
	summary := aggregate.RankByCountry(filtered,
		aggregate.WithResolver(s.resolver),
		aggregate.WithRankFallback(s.rankFallback),
	)

	out := types.Map{
		Selection: types.FromSelection(sel),
		Summary:   make([]types.CountryValue, 0, len(summary)),
		Fills:     []types.Fill{},
		Unmatched: []string{},
	}
	for country, v := range summary {
		out.Summary = append(out.Summary, types.CountryValue{Country: country, MeanRank: v, Color: s.color.Hex(v)})
	}
	sort.Slice(out.Summary, func(i, j int) bool { return out.Summary[i].Country < out.Summary[j].Country })

	if boundaries := s.boundarySource(); len(boundaries) > 0 {
		res := geo.Join(boundaries, summary, s.resolver, s.color, s.proj)
		out.Fills = fills(res.Fills)
		if res.Unmatched != nil {
			out.Unmatched = res.Unmatched
		}
		s.reportUnmatched(ctx, sel, res.Unmatched)
	}

	metrics.RecordViewCompute("map", elapsedMs(start))
	return out, nil
}

func fills(in []geo.Fill) []types.Fill {
	out := make([]types.Fill, len(in))
	for i, f := range in {
		out[i] = types.Fill{
			Name:    f.Name,
			Value:   types.Num(f.Value),
			Color:   f.Color,
			Matched: f.Matched,
			Rings:   f.Rings,
		}
		if f.HasCentroid {
			c := f.Centroid
			out[i].Centroid = &c
		}
	}
	return out
}

// reportUnmatched logs ranking countries the boundary source does not name,
// so missing alias entries can be added to the configuration.
func (s *Service) reportUnmatched(ctx context.Context, sel model.Selection, unmatched []string) {
	metrics.UpdateGeoUnmatched(len(unmatched))
	if len(unmatched) == 0 {
		return
	}
	log := s.log()
	for _, country := range unmatched {
		log.Debug(ctx, "country has no boundary",
			logger.String("country", country),
			logger.Int("year", sel.Year),
		)
	}
}

// Trend returns the yearly mean total score over every year for country.
// It depends on the country selector only.
func (s *Service) Trend(ctx context.Context, country string) (types.Trend, error) {
	start := time.Now()
	records, err := s.table.Records(ctx)
	if err != nil {
		return types.Trend{}, err
	}
	if country == "" {
		country = model.AllCountries
	}

	averages := aggregate.AverageScoreByYear(query.ByCountry(records, country))
	hi := trendMaxScore
	if len(averages) > 0 {
		top := averages[0].MeanTotalScore
		for _, a := range averages[1:] {
			top = max(top, a.MeanTotalScore)
		}
		if top > 0 {
			hi = top
		}
	}
	y := scale.NewLinear(scale.Interval{0, hi}, scale.Interval{0, 1})

	out := types.Trend{
		Country: country,
		Points:  types.FromYearAverages(averages),
		YDomain: types.NewDomain(0, hi, true),
		YTicks:  y.Ticks(axisTicks),
	}

	metrics.RecordViewCompute("trend", elapsedMs(start))
	return out, nil
}
