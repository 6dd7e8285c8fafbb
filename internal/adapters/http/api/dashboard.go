package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/unirank/internal/app"
)

// DashboardHandler serves the selection-driven chart views.
type DashboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, maxLimit int) *DashboardHandler {
	return &DashboardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleOptions handles GET /api/v1/options requests.
func (h *DashboardHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeFailure(w, fmt.Errorf("api.options: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleViews handles GET /api/v1/views?country=&year=&metric=&limit= requests.
func (h *DashboardHandler) HandleViews(w http.ResponseWriter, r *http.Request) {
	const op = "api.views"
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeFailure(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	if q.Limit > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%s: %w: limit must be at most %d", op, ErrLimitExceeded, h.maxLimit))
		return
	}
	views, err := h.deps.Views(r.Context(), q)
	if err != nil {
		writeFailure(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleMap handles GET /api/v1/map?country=&year= requests.
func (h *DashboardHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	const op = "api.map"
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeFailure(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	m, err := h.deps.Map(r.Context(), q)
	if err != nil {
		writeFailure(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleTrend handles GET /api/v1/trend?country= requests. Any year
// parameter is ignored.
func (h *DashboardHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.deps.Trend(r.Context(), strings.TrimSpace(r.URL.Query().Get("country")))
	if err != nil {
		writeFailure(w, fmt.Errorf("api.trend: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// parseQuery reads the selection parameters. Empty parameters keep their
// defaults; malformed numbers are rejected.
func parseQuery(v url.Values) (service.Query, error) {
	q := service.Query{
		Country: strings.TrimSpace(v.Get("country")),
		Metric:  strings.TrimSpace(v.Get("metric")),
	}
	if raw := strings.TrimSpace(v.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year <= 0 {
			return service.Query{}, fmt.Errorf("%w: invalid year %q", ErrBadRequest, raw)
		}
		q.Year = year
	}
	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return service.Query{}, fmt.Errorf("%w: invalid limit %q", ErrBadRequest, raw)
		}
		q.Limit = n
	}
	return q, nil
}
