package api

import "time"

// DefaultMaxLimit caps the limit parameter of the views endpoint.
const DefaultMaxLimit = 100

type settings struct {
	maxLimit       int
	allowedOrigins []string
	timeout        time.Duration
}

func defaultSettings() settings {
	return settings{
		maxLimit:       DefaultMaxLimit,
		allowedOrigins: []string{"http://localhost:3000"},
		timeout:        30 * time.Second,
	}
}

// Option configures the server and router.
type Option func(*settings)

// WithMaxLimit sets the largest accepted limit parameter.
func WithMaxLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithAllowedOrigins sets the CORS origins allowed to read the API.
func WithAllowedOrigins(origins []string) Option {
	return func(s *settings) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}
