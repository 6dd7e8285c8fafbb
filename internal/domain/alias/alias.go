// Package alias reconciles country names between the ranking table and the
// geographic boundary source. The canonical form is the boundary source's.
package alias

// builtin maps ranking-table spellings to boundary-source names.
var builtin = map[string]string{
	"Czech Republic":            "Czechia",
	"Republic of Ireland":       "Ireland",
	"South Korea":               "Korea, Republic of",
	"North Korea":               "Korea, Democratic People's Republic of",
	"Iran":                      "Iran (Islamic Republic of)",
	"Syria":                     "Syrian Arab Republic",
	"Vietnam":                   "Viet Nam",
	"Venezuela":                 "Venezuela (Bolivarian Republic of)",
	"Tanzania":                  "Tanzania, United Republic of",
	"Moldova":                   "Republic of Moldova",
	"Bolivia":                   "Bolivia (Plurinational State of)",
	"Brunei":                    "Brunei Darussalam",
	"Laos":                      "Lao People's Democratic Republic",
	"Micronesia":                "Micronesia (Federated States of)",
	"Palestine":                 "Palestine, State of",
	"Russia":                    "Russian Federation",
	"United States":             "United States of America",
	"Unted Kingdom":             "United Kingdom",
	"Unisted States of America": "United States of America",
}

// Resolver normalizes country names against a fixed alias table.
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	table map[string]string
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithExtra adds aliases on top of the built-in table. An extra entry
// replaces a built-in entry with the same key. Empty keys or values are ignored.
func WithExtra(extra map[string]string) Option {
	return func(r *Resolver) {
		for from, to := range extra {
			if from == "" || to == "" {
				continue
			}
			r.table[from] = to
		}
	}
}

// New creates a Resolver seeded with the built-in table.
func New(opts ...Option) *Resolver {
	r := &Resolver{table: make(map[string]string, len(builtin))}
	for from, to := range builtin {
		r.table[from] = to
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize returns the canonical name for country. Unknown names pass through.
func (r *Resolver) Normalize(country string) string {
	if r == nil {
		return Normalize(country)
	}
	if canonical, ok := r.table[country]; ok {
		return canonical
	}
	return country
}

// Len returns the number of aliases known to the resolver.
func (r *Resolver) Len() int {
	return len(r.table)
}

var defaultResolver = New()

// Default returns the resolver backed by the built-in table only.
func Default() *Resolver {
	return defaultResolver
}

// Normalize resolves country against the built-in table.
func Normalize(country string) string {
	if canonical, ok := builtin[country]; ok {
		return canonical
	}
	return country
}
