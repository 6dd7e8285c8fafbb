// Package service composes the ranking pipeline and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/unirank/internal/adapters/geo"
	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/alias"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/internal/domain/scale"
	"github.com/okian/unirank/internal/domain/types"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// Service derives every dashboard view from the base table and a selection
// supplied per call. It keeps no selection state of its own.
type Service struct {
	mu sync.RWMutex

	// Core components
	table    *repository.Table
	resolver *alias.Resolver
	color    scale.Color
	proj     scale.Mercator

	// Optional geographic source
	boundaries []geo.Boundary

	// Configuration
	dataPath       string
	boundariesPath string
	topN           int
	rankFallback   float64
	mapWidth       float64
	mapHeight      float64
	mapScale       float64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTable sets the base table. A fresh table is used by default.
func WithTable(t *repository.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithResolver sets the country alias resolver used by the map.
func WithResolver(r *alias.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithDataPath sets the ranking CSV loaded by Start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithBoundariesPath sets the optional GeoJSON boundary file loaded by Start.
func WithBoundariesPath(path string) Option {
	return func(s *Service) {
		s.boundariesPath = path
	}
}

// WithBoundaries sets already decoded boundaries.
func WithBoundaries(b []geo.Boundary) Option {
	return func(s *Service) {
		s.boundaries = b
	}
}

// WithTopN sets the default length of the top universities view.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithRankFallback sets the mean rank of countries with no valid rank.
func WithRankFallback(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.rankFallback = v
		}
	}
}

// WithMapSize sets the world map viewport in pixels.
func WithMapSize(width, height float64) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.mapWidth, s.mapHeight = width, height
		}
	}
}

// WithMapScale sets the map projection scale in pixels per radian.
func WithMapScale(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.mapScale = v
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resolver:     alias.Default(),
		color:        scale.DefaultChoropleth(),
		topN:         query.DefaultTopN,
		rankFallback: aggregate.DefaultRankFallback,
		mapWidth:     scale.DefaultMapWidth,
		mapHeight:    scale.DefaultMapHeight,
		mapScale:     scale.DefaultMapScale,
		logger:       nil, // resolved on first use
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.table == nil {
		s.table = repository.NewTable(repository.WithLogger(s.logger))
	}
	s.proj = scale.NewMercator(
		scale.WithMapScale(s.mapScale),
		scale.WithViewport(s.mapWidth, s.mapHeight),
	)
	if len(s.boundaries) > 0 {
		metrics.UpdateGeoFeatures(len(s.boundaries))
	}

	return s
}

func (s *Service) log() logger.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s.logger
}

// Start loads the configured ranking table and, when set, the boundary source.
// Both are read concurrently. A table load failure is fatal to the service; a
// boundary failure only disables map fills.
func (s *Service) Start(ctx context.Context) error {
	log := s.log()
	log.Info(ctx, "starting dashboard service...",
		logger.String("data_path", s.dataPath),
		logger.String("boundaries_path", s.boundariesPath),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.table.LoadFile(gctx, s.dataPath)
	})
	if s.boundariesPath != "" {
		g.Go(func() error {
			if err := s.LoadBoundariesFile(gctx, s.boundariesPath); err != nil {
				log.Warn(gctx, "map fills disabled", logger.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(ctx, "dashboard service started",
		logger.Int("top_n", s.topN),
		logger.Float64("rank_fallback", s.rankFallback),
	)
	return nil
}

// Load fills the base table from r. It succeeds at most once.
func (s *Service) Load(ctx context.Context, r io.Reader, source string) error {
	return s.table.Load(ctx, r, source)
}

// LoadBoundariesFile replaces the boundary source with the features in path.
func (s *Service) LoadBoundariesFile(ctx context.Context, path string) error {
	start := time.Now()
	b, err := geo.LoadBoundariesFile(path)
	if err != nil {
		metrics.RecordErrorByComponent("geo", "load")
		return fmt.Errorf("load boundaries: %w", err)
	}

	s.mu.Lock()
	s.boundaries = b
	s.mu.Unlock()

	metrics.UpdateGeoFeatures(len(b))
	s.log().Info(ctx, "boundaries loaded",
		logger.String("path", path),
		logger.Int("features", len(b)),
		logger.Duration("load_ms", time.Since(start)),
	)
	return nil
}

func (s *Service) boundarySource() []geo.Boundary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundaries
}

// GetStats describes the loaded base table for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	stats := types.Stats{
		Degraded: map[string]int{},
		Features: len(s.boundarySource()),
	}
	snap, err := s.table.Snapshot(ctx)
	if err != nil {
		return stats
	}
	stats.Loaded = true
	stats.LoadID = snap.LoadID
	stats.Rows = snap.Parse.Rows
	stats.Records = snap.Records
	stats.Countries = snap.Countries
	if snap.Parse.Degraded != nil {
		stats.Degraded = snap.Parse.Degraded
	}
	return stats
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
