// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers an optional YAML file and UNIRANK_ env vars over the defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"math"
	"time"
)

// CountryAlias maps a country name used by the ranking table to the name
// the boundary source uses.
type CountryAlias struct {
	Name      string `koanf:"name"`
	Canonical string `koanf:"canonical"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. "127.0.0.1:9080".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// DataPath is the ranking table CSV loaded once at start.
	DataPath string `koanf:"data_path"`

	// BoundariesPath is an optional GeoJSON FeatureCollection of countries.
	// The map view returns the rank summary only when it is empty.
	BoundariesPath string `koanf:"boundaries_path"`

	// TopN is the default length of the top universities view.
	TopN int `koanf:"top_n"`

	// RankFallback is the mean rank of a country with no valid rank.
	RankFallback float64 `koanf:"rank_fallback"`

	// MapWidth, MapHeight and MapScale size the projected world map.
	MapWidth  float64 `koanf:"map_width"`
	MapHeight float64 `koanf:"map_height"`
	MapScale  float64 `koanf:"map_scale"`

	// AllowedOrigins lists the CORS origins of the chart front end.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// CountryAliases extends the built-in country alias table.
	CountryAliases []CountryAlias `koanf:"country_aliases"`

	// Deployment names this instance. When set it is attached to every
	// exported metric as the "deployment" label.
	Deployment string `koanf:"deployment"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            "127.0.0.1:9080",
		ShutdownTimeout: 10 * time.Second,
		DataPath:        "data/timesData.csv",
		TopN:            10,
		RankFallback:    100,
		MapWidth:        600,
		MapHeight:       350,
		MapScale:        100,
		AllowedOrigins:  []string{"http://localhost:3000"},
	}
}

// AliasMap returns the configured aliases keyed by table name.
// Entries with an empty side are skipped.
func (c *Config) AliasMap() map[string]string {
	out := make(map[string]string, len(c.CountryAliases))
	for _, a := range c.CountryAliases {
		if a.Name == "" || a.Canonical == "" {
			continue
		}
		out[a.Name] = a.Canonical
	}
	return out
}

// MetricLabels returns the constant labels of exported metrics, or nil.
func (c *Config) MetricLabels() map[string]string {
	if c.Deployment == "" {
		return nil
	}
	return map[string]string{"deployment": c.Deployment}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.DataPath == "":
		return invalid("data_path must not be empty")
	case c.TopN <= 0:
		return invalid("top_n must be positive")
	case !(c.RankFallback > 0) || math.IsInf(c.RankFallback, 0):
		return invalid("rank_fallback must be positive")
	case c.MapWidth <= 0 || c.MapHeight <= 0:
		return invalid("map_width and map_height must be positive")
	case c.MapScale <= 0:
		return invalid("map_scale must be positive")
	case c.ShutdownTimeout <= 0:
		return invalid("shutdown_timeout must be positive")
	}
	return nil
}
