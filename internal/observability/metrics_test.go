package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilife/campus-portal/config"
)

func loggerConfig(level, format string) config.ObservabilityConfig {
	return config.ObservabilityConfig{LogLevel: level, LogFormat: format, MetricsEnabled: true}
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := NewMetrics()

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/api/lecturer/assignments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/lecturer/assignments/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(metricsRec, metricsReq)

	body := metricsRec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	// The matched pattern keeps label cardinality bounded.
	assert.Contains(t, body, `path="/api/lecturer/assignments/{id}"`)
	assert.NotContains(t, body, `path="/api/lecturer/assignments/42"`)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(loggerConfig("debug", "json"), "test")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	// Unknown level falls back instead of failing startup.
	logger, err = NewLogger(loggerConfig("chatty", "text"), "test")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
