package core

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fesmock/internal/ledger"
)

const metricsNamespace = "fesmock"

// PrometheusMetrics implements MetricsCollector on top of Prometheus
// collectors.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the request collectors and an issued token
// gauge backed by l on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, l *ledger.Ledger) (*PrometheusMetrics, error) {
	if reg == nil {
		return nil, fmt.Errorf("registerer must not be nil")
	}
	if l == nil {
		return nil, fmt.Errorf("ledger must not be nil")
	}

	m := &PrometheusMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Requests handled by the mock, by method, route and status.",
		}, []string{"method", "endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	issued := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "issued_tokens",
		Help:      "Reply tokens recorded in the token ledger.",
	}, func() float64 { return float64(l.Len()) })

	for _, c := range []prometheus.Collector{m.requests, m.duration, issued} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics collector: %w", err)
		}
	}
	return m, nil
}

// RecordRequest implements MetricsCollector.
func (m *PrometheusMetrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	m.requests.WithLabelValues(method, endpoint, status).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
