package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// newTestMetrics registers a fresh metric set on a private registry.
func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()

	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	t.Cleanup(func() { prometheus.DefaultRegisterer = prev })

	return metrics.New()
}
