package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_CountsByOutcome(t *testing.T) {
	r := New()
	r.Observe("schedule", "ok")
	r.Observe("schedule", "conflict")
	r.Observe("schedule", "conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("schedule", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("schedule", "ok")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := New()
	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/pets/{petID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", r.Handler())

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pets/"+id, nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/pets/{petID}", "404")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "getapet_http_requests_total"))
}
