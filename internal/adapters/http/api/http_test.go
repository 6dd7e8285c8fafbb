package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/unirank/internal/adapters/http/api"
	"github.com/okian/unirank/internal/adapters/repository"
	service "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/types"
	"github.com/okian/unirank/pkg/logger"
)

const fixtureCSV = `world_rank,university_name,country,teaching,international,research,citations,income,total_score,num_students,student_staff_ratio,international_students,female_male_ratio,year
1,Harvard University,United States of America,99.7,72.4,98.7,98.8,34.5,96.1,"20,152",8.9,25%,,2011
=39,University of Toronto,Canada,75.9,59.8,82.4,85.9,-,73.5,"66,198",19.5,15%,,2011
3,University of Oxford,United Kingdom,88.2,77.2,93.9,95.1,73.5,93.6,"19,919",11.6,34%,46 : 54,2016
1,California Institute of Technology,United States of America,95.6,64.0,97.6,99.8,97.8,95.2,"2,243",6.9,27%,33 : 67,2016
19,University of Toronto,Canada,86.0,75.0,86.0,87.0,50.0,81.2,"66,198",19.5,15%,,2016
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

// mockDeps records the last query and fails with err when set.
type mockDeps struct {
	err       error
	lastQuery service.Query
	country   string
}

func (m *mockDeps) Options(context.Context) (types.Options, error) {
	if m.err != nil {
		return types.Options{}, m.err
	}
	return types.Options{Countries: []string{model.AllCountries, "Canada"}, MinYear: 2011, MaxYear: 2016}, nil
}

func (m *mockDeps) Views(_ context.Context, q service.Query) (types.Views, error) {
	m.lastQuery = q
	if m.err != nil {
		return types.Views{}, m.err
	}
	return types.Views{Filtered: []types.Record{}, Top: []types.Record{}}, nil
}

func (m *mockDeps) Map(_ context.Context, q service.Query) (types.Map, error) {
	m.lastQuery = q
	if m.err != nil {
		return types.Map{}, m.err
	}
	return types.Map{Summary: []types.CountryValue{}}, nil
}

func (m *mockDeps) Trend(_ context.Context, country string) (types.Trend, error) {
	m.country = country
	if m.err != nil {
		return types.Trend{}, m.err
	}
	return types.Trend{Country: country}, nil
}

type mockStats struct{ stats types.Stats }

func (m mockStats) GetStats(context.Context) types.Stats { return m.stats }

func newRouter(deps api.Dependencies, stats api.StatsProvider, opts ...api.Option) chi.Router {
	r := api.NewRouter(opts...)
	api.NewServer(deps, stats, opts...).Register(context.Background(), r)
	return r
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDeps{}
		r := newRouter(deps, mockStats{stats: types.Stats{Loaded: true, Rows: 3, Degraded: map[string]int{}}})

		Convey("Then the health endpoint exposes metrics", func() {
			serve(r, "/api/v1/options")
			w := serve(r, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "unirank_dashboard_http_requests_total")
		})

		Convey("And the stats endpoint reports the load", func() {
			w := serve(r, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"loaded":true`)
			So(w.Body.String(), ShouldContainSubstring, `"rows":3`)
		})

		Convey("And options are served as JSON", func() {
			w := serve(r, "/api/v1/options")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"countries":["All","Canada"]`)
		})

		Convey("And unknown paths are not found", func() {
			So(serve(r, "/leaderboard").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the API is read-only", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/views", strings.NewReader(`{}`)))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a nil router", t, func() {
		So(func() {
			api.NewServer(&mockDeps{}, mockStats{}).Register(context.Background(), nil)
		}, ShouldPanic)
	})
}

func TestDashboardHandler_Query(t *testing.T) {
	Convey("Given a dashboard with a small limit cap", t, func() {
		deps := &mockDeps{}
		r := newRouter(deps, mockStats{}, api.WithMaxLimit(20))

		Convey("When all parameters are given", func() {
			w := serve(r, "/api/v1/views?country=Canada&year=2016&metric=income&limit=5")

			Convey("Then they reach the service unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldResemble, service.Query{Country: "Canada", Year: 2016, Metric: "income", Limit: 5})
			})
		})

		Convey("When parameters are blank", func() {
			w := serve(r, "/api/v1/map?country=&year=")

			Convey("Then defaults are left to the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldResemble, service.Query{})
			})
		})

		Convey("When the year is not a number", func() {
			w := serve(r, "/api/v1/views?year=twenty")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
				So(w.Body.String(), ShouldContainSubstring, "invalid year")
			})
		})

		Convey("When the limit is out of range", func() {
			So(serve(r, "/api/v1/views?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			w := serve(r, "/api/v1/views?limit=21")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "limit_exceeded")
		})

		Convey("When asking for a trend with a year", func() {
			w := serve(r, "/api/v1/trend?country=Canada&year=2011")

			Convey("Then only the country is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.country, ShouldEqual, "Canada")
			})
		})
	})
}

func TestDashboardHandler_Errors(t *testing.T) {
	Convey("Given upstream failures", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{fmt.Errorf("resolve: %w", model.ErrUnknownMetric), http.StatusBadRequest, "bad_request"},
			{fmt.Errorf("records: %w", repository.ErrNotLoaded), http.StatusServiceUnavailable, "not_loaded"},
			{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		}

		for _, tc := range cases {
			r := newRouter(&mockDeps{err: tc.err}, mockStats{})
			for _, path := range []string{"/api/v1/options", "/api/v1/views", "/api/v1/map", "/api/v1/trend"} {
				w := serve(r, path)
				So(w.Code, ShouldEqual, tc.status)
				So(errorCode(w), ShouldEqual, tc.code)
			}
		}
	})
}

func TestRouter_CORS(t *testing.T) {
	Convey("Given a router allowing one origin", t, func() {
		r := newRouter(&mockDeps{}, mockStats{}, api.WithAllowedOrigins([]string{"http://dash.example"}))

		preflight := func(origin string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/views", http.NoBody)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			return w
		}

		Convey("Then the allowed origin may read the API", func() {
			w := preflight("http://dash.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://dash.example")
		})

		Convey("And other origins are not admitted", func() {
			w := preflight("http://evil.example")
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}

func TestServer_EndToEnd(t *testing.T) {
	Convey("Given the API over a loaded service", t, func() {
		svc := service.New()
		So(svc.Load(context.Background(), strings.NewReader(fixtureCSV), "fixture"), ShouldBeNil)
		r := newRouter(svc, svc)

		Convey("When switching the selected year", func() {
			var v2016, v2011 types.Views
			So(json.Unmarshal(serve(r, "/api/v1/views?country=Canada").Body.Bytes(), &v2016), ShouldBeNil)
			So(json.Unmarshal(serve(r, "/api/v1/views?country=Canada&year=2011").Body.Bytes(), &v2011), ShouldBeNil)
			before := serve(r, "/api/v1/trend?country=Canada").Body.String()
			after := serve(r, "/api/v1/trend?country=Canada&year=2011").Body.String()

			Convey("Then the table changes and the trend does not", func() {
				So(v2016.Selection.Year, ShouldEqual, 2016)
				So(v2016.Filtered, ShouldHaveLength, 1)
				So(v2011.Filtered, ShouldHaveLength, 1)
				So(v2011.Filtered[0].WorldRank, ShouldBeNil)
				So(*v2016.Filtered[0].WorldRank, ShouldEqual, 19)
				So(after, ShouldEqual, before)
			})
		})

		Convey("When asking for the map", func() {
			var m types.Map
			w := serve(r, "/api/v1/map?year=2011")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &m), ShouldBeNil)

			Convey("Then missing ranks take the fallback value", func() {
				So(m.Summary, ShouldHaveLength, 2)
				So(m.Summary[0].Country, ShouldEqual, "Canada")
				So(m.Summary[0].MeanRank, ShouldEqual, 100)
				So(m.Fills, ShouldBeEmpty)
			})
		})

		Convey("When the metric is unknown", func() {
			w := serve(r, "/api/v1/views?metric=citations")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given the API over an empty service", t, func() {
		svc := service.New()
		r := newRouter(svc, svc)

		Convey("Then views are unavailable and stats say so", func() {
			So(serve(r, "/api/v1/views").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(serve(r, "/stats").Body.String(), ShouldContainSubstring, `"loaded":false`)
		})
	})
}
