package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.ObserveRequest("rest", "GET", 200, 10*time.Millisecond)
	m.ObserveRequest("rest", "GET", 200, 20*time.Millisecond)
	m.ObserveRequest("graphql", "POST", 500, time.Millisecond)
	m.NoMatch("rest")
	m.QueueAdvance("rest/0/0")
	m.QueueAdvance("rest/0/0")
	m.InterceptorError("request", "route")
	m.ResolutionError(404)
	m.SetConfiguredRoutes("rest", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rest", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("graphql", "POST", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoMatchTotal.WithLabelValues("rest")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueueAdvancesTotal.WithLabelValues("rest/0/0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InterceptorErrorsTotal.WithLabelValues("request", "route")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolutionErrorsTotal.WithLabelValues("404")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ConfiguredRoutes.WithLabelValues("rest")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("rest", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mockconf_requests_total{kind="rest",method="GET",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("rest", "GET", 200, time.Millisecond)
		m.NoMatch("rest")
		m.QueueAdvance("r")
		m.InterceptorError("request", "server")
		m.ResolutionError(500)
		m.SetConfiguredRoutes("rest", 1)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
