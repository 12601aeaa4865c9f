package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		wantLabel  string
		statusCode int
	}{
		{
			name:       "labels account path by pattern",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/5300",
			wantLabel:  "/api/v1/accounts/{code}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps static path",
			method:     http.MethodPost,
			path:       "/health",
			wantLabel:  "/health",
			statusCode: http.StatusCreated,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			wantLabel:  "unmatched",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMetrics(t)

			r := chi.NewRouter()
			r.Use(Metrics(m))
			respond := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(tc.statusCode) }
			r.Get("/api/v1/accounts/{code}", respond)
			r.Post("/health", respond)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.wantLabel, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestMetricsMiddlewareNilIsPassthrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	Metrics(nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatalf("next handler was not invoked")
	}
}
