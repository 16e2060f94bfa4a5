package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mockconf"

// Metrics holds the server's collectors.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts served requests.
	// Labels: kind (rest, graphql, none), method, status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks request durations in seconds, delays included.
	// Labels: kind.
	RequestDuration *prometheus.HistogramVec

	// NoMatchTotal counts requests answered with 404 and suggestions.
	// Labels: kind.
	NoMatchTotal *prometheus.CounterVec

	// QueueAdvancesTotal counts queue cursor advances.
	// Labels: route.
	QueueAdvancesTotal *prometheus.CounterVec

	// InterceptorErrorsTotal counts failed interceptors.
	// Labels: phase, scope.
	InterceptorErrorsTotal *prometheus.CounterVec

	// ResolutionErrorsTotal counts failed resolutions.
	// Labels: status.
	ResolutionErrorsTotal *prometheus.CounterVec

	// ConfiguredRoutes is the number of configured routes.
	// Labels: kind.
	ConfiguredRoutes *prometheus.GaugeVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total requests served.",
			},
			[]string{"kind", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		NoMatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "no_match_total",
				Help:      "Requests that matched no route.",
			},
			[]string{"kind"},
		),
		QueueAdvancesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queue_advances_total",
				Help:      "Queue cursor advances per route.",
			},
			[]string{"route"},
		),
		InterceptorErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interceptor_errors_total",
				Help:      "Interceptors that returned an error or panicked.",
			},
			[]string{"phase", "scope"},
		),
		ResolutionErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolution_errors_total",
				Help:      "Routes that failed to produce a response.",
			},
			[]string{"status"},
		),
		ConfiguredRoutes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "configured_routes",
				Help:      "Number of configured routes.",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.NoMatchTotal,
		m.QueueAdvancesTotal,
		m.InterceptorErrorsTotal,
		m.ResolutionErrorsTotal,
		m.ConfiguredRoutes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(kind, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// NoMatch records a request that matched no route.
func (m *Metrics) NoMatch(kind string) {
	if m == nil {
		return
	}
	m.NoMatchTotal.WithLabelValues(kind).Inc()
}

// QueueAdvance records one cursor advance of a queued route.
func (m *Metrics) QueueAdvance(routeID string) {
	if m == nil {
		return
	}
	m.QueueAdvancesTotal.WithLabelValues(routeID).Inc()
}

// InterceptorError records a failed interceptor.
func (m *Metrics) InterceptorError(phase, scope string) {
	if m == nil {
		return
	}
	m.InterceptorErrorsTotal.WithLabelValues(phase, scope).Inc()
}

// ResolutionError records a failed resolution.
func (m *Metrics) ResolutionError(status int) {
	if m == nil {
		return
	}
	m.ResolutionErrorsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// SetConfiguredRoutes records the number of routes of a kind.
func (m *Metrics) SetConfiguredRoutes(kind string, n int) {
	if m == nil {
		return
	}
	m.ConfiguredRoutes.WithLabelValues(kind).Set(float64(n))
}
