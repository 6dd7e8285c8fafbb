// Package repository holds the in-memory base record set the dashboard is computed from.
package repository

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/unirank/internal/domain/ingest"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// Snapshot describes a completed load.
type Snapshot struct {
	LoadID    string
	LoadedAt  time.Time
	Source    string
	Records   int
	Countries int
	Parse     ingest.Stats
}

// Store provides read access to the base record set.
type Store interface {
	// Records returns every parsed record in source order.
	// Returns ErrNotLoaded before the first successful load.
	Records(ctx context.Context) ([]model.UniversityRecord, error)

	// Snapshot describes the current load.
	// Returns ErrNotLoaded before the first successful load.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Table is a write-once Store. It is filled by exactly one successful Load
// and is read-only afterwards, so reads need no copying.
type Table struct {
	mu      sync.RWMutex
	loading bool
	loaded  bool

	records []model.UniversityRecord
	snap    Snapshot

	logger logger.Logger
	now    func() time.Time
}

var _ Store = (*Table)(nil)

// NewTable returns an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load parses delimited text from r into the table. It succeeds at most once:
// later calls return ErrAlreadyLoaded. A failed load leaves the table empty
// and may be retried.
func (t *Table) Load(ctx context.Context, r io.Reader, source string) error {
	if err := t.begin(); err != nil {
		return err
	}

	start := t.now()
	records, stats, err := ingest.Load(ctx, r)
	if err != nil {
		t.abort()
		metrics.RecordErrorByComponent("repository", "load")
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, source, err)
	}

	t.commit(ctx, records, stats, source, start)
	return nil
}

// LoadFile opens path and loads it.
func (t *Table) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "open")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer func() { _ = f.Close() }()
	return t.Load(ctx, f, path)
}

// LoadRecords fills the table from already parsed records, e.g. fixtures.
func (t *Table) LoadRecords(ctx context.Context, records []model.UniversityRecord, source string) error {
	if err := t.begin(); err != nil {
		return err
	}
	t.commit(ctx, slices.Clone(records), ingest.Stats{Rows: len(records), Degraded: map[string]int{}}, source, t.now())
	return nil
}

func (t *Table) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded || t.loading {
		return ErrAlreadyLoaded
	}
	t.loading = true
	return nil
}

func (t *Table) abort() {
	t.mu.Lock()
	t.loading = false
	t.mu.Unlock()
}

func (t *Table) commit(ctx context.Context, records []model.UniversityRecord, stats ingest.Stats, source string, start time.Time) {
	snap := Snapshot{
		LoadID:    uuid.NewString(),
		LoadedAt:  t.now(),
		Source:    source,
		Records:   len(records),
		Countries: len(query.Countries(records)),
		Parse:     stats,
	}

	t.mu.Lock()
	t.records = slices.Clip(records)
	t.snap = snap
	t.loaded = true
	t.loading = false
	if t.logger == nil {
		t.logger = logger.Get()
	}
	log := t.logger
	t.mu.Unlock()

	elapsed := snap.LoadedAt.Sub(start)
	metrics.RecordLoad(float64(elapsed.Microseconds()) / 1000)
	metrics.UpdateRecordsLoaded(snap.Records)
	metrics.UpdateCountries(snap.Countries)
	for field, n := range stats.Degraded {
		metrics.RecordDegradedFields(field, n)
	}

	log.Info(ctx, "ranking table loaded",
		logger.String("load_id", snap.LoadID),
		logger.String("source", source),
		logger.Int("records", snap.Records),
		logger.Int("countries", snap.Countries),
		logger.Int("degraded_fields", stats.DegradedTotal()),
		logger.Duration("load_ms", elapsed),
	)
}

// Loaded reports whether a load has completed.
func (t *Table) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// Records returns the base records. The slice is shared and capacity-clipped;
// callers must not write through it.
func (t *Table) Records(_ context.Context) ([]model.UniversityRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.loaded {
		return nil, ErrNotLoaded
	}
	return t.records, nil
}

// Snapshot describes the completed load.
func (t *Table) Snapshot(_ context.Context) (Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.loaded {
		return Snapshot{}, ErrNotLoaded
	}
	snap := t.snap
	snap.Parse.Degraded = maps.Clone(t.snap.Parse.Degraded)
	return snap, nil
}
