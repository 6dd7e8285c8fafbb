package repository

import (
	"time"

	"github.com/okian/unirank/pkg/logger"
)

// Option applies a configuration option to the Table.
type Option func(*Table)

// WithLogger sets the logger used to report loads.
func WithLogger(l logger.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		if now != nil {
			t.now = now
		}
	}
}
