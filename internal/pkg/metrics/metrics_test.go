package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopProvider_WhenDisabled(t *testing.T) {
	m := NewProvider(false)
	_, ok := m.(*noopProvider)
	assert.True(t, ok, "should return noopProvider when disabled")

	m.ObserveRequest("/api/sessions", 200, time.Millisecond)
	m.IncAnalyses(ScopeSession, OutcomeOK)
	m.ObserveUpstreamDuration(time.Millisecond)
	m.AddPurged("patients", 3)
}

func TestPrometheusProvider_Counts(t *testing.T) {
	m, ok := NewProvider(true).(*PrometheusProvider)
	require.True(t, ok)

	m.IncAnalyses(ScopeSession, OutcomeOK)
	m.IncAnalyses(ScopeSession, OutcomeOK)
	m.IncAnalyses(ScopePatient, OutcomeUpstream)
	m.AddPurged("patients", 4)
	m.AddPurged("patients", 0)
	m.ObserveRequest("/api/sessions", 201, time.Millisecond)
	m.ObserveRequest("/api/sessions", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(ScopeSession, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(ScopePatient, OutcomeUpstream)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.purgedTotal.WithLabelValues("patients")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/sessions", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/sessions", "4xx")))
}

func TestPrometheusProvider_IndependentRegistries(t *testing.T) {
	// Two providers in one process must not collide on registration.
	a := NewProvider(true)
	b := NewProvider(true)
	a.IncAnalyses(ScopeSession, OutcomeOK)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.(*PrometheusProvider).analysesTotal.WithLabelValues(ScopeSession, OutcomeOK)))
}

func TestPrometheusProvider_Handler(t *testing.T) {
	m := NewProvider(true)
	m.IncAnalyses(ScopePatient, OutcomeOK)

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `session_insight_analyses_total{outcome="ok",scope="patient"} 1`)
}

func TestStatusBucket(t *testing.T) {
	assert.Equal(t, "2xx", statusBucket(200))
	assert.Equal(t, "4xx", statusBucket(401))
	assert.Equal(t, "5xx", statusBucket(502))
}
