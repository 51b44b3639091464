package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "session_insight"

// Analysis scopes and outcomes used as label values.
const (
	ScopeSession = "session"
	ScopePatient = "patient"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeUpstream = "upstream_error"
	OutcomeMissing  = "not_found"
)

type Provider interface {
	ObserveRequest(route string, status int, duration time.Duration)
	IncAnalyses(scope, outcome string)
	ObserveUpstreamDuration(duration time.Duration)
	AddPurged(collection string, n int64)
	Handler() fiber.Handler
}

type PrometheusProvider struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	analysesTotal    *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
	purgedTotal      *prometheus.CounterVec
}

// NewProvider returns a Prometheus-backed provider with its own registry,
// or a no-op when disabled.
func NewProvider(enabled bool) Provider {
	if !enabled {
		return &noopProvider{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusProvider{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		analysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis attempts by scope and outcome",
		}, []string{"scope", "outcome"}),

		upstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_upstream_duration_seconds",
			Help:      "Latency of calls to the analysis service",
			Buckets:   prometheus.DefBuckets,
		}),

		purgedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_purged_total",
			Help:      "Records physically removed after expiry",
		}, []string{"collection"}),
	}
}

func (m *PrometheusProvider) ObserveRequest(route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *PrometheusProvider) IncAnalyses(scope, outcome string) {
	m.analysesTotal.WithLabelValues(scope, outcome).Inc()
}

func (m *PrometheusProvider) ObserveUpstreamDuration(duration time.Duration) {
	m.upstreamDuration.Observe(duration.Seconds())
}

func (m *PrometheusProvider) AddPurged(collection string, n int64) {
	if n <= 0 {
		return
	}
	m.purgedTotal.WithLabelValues(collection).Add(float64(n))
}

func (m *PrometheusProvider) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *PrometheusProvider) Registry() *prometheus.Registry {
	return m.registry
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopProvider struct{}

func (n *noopProvider) ObserveRequest(_ string, _ int, _ time.Duration) {}
func (n *noopProvider) IncAnalyses(_, _ string)                         {}
func (n *noopProvider) ObserveUpstreamDuration(_ time.Duration)         {}
func (n *noopProvider) AddPurged(_ string, _ int64)                     {}
func (n *noopProvider) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	}
}
