package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API server.
// Each Metrics owns its registry so several servers can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests counts handled requests by method, route template and status.
	HTTPRequests *prometheus.CounterVec

	// Analyses counts analysis runs by platform and result ("ok" or "error").
	Analyses *prometheus.CounterVec

	// AnalysisDuration observes how long analysis runs take.
	AnalysisDuration prometheus.Histogram

	// FollowersScored counts followers scored by successful analyses.
	FollowersScored prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realreach_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),

		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realreach_analyses_total",
				Help: "Total number of follower analyses by platform and result",
			},
			[]string{"platform", "result"},
		),

		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "realreach_analysis_duration_seconds",
				Help:    "Duration of follower analyses in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
		),

		FollowersScored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "realreach_followers_scored_total",
				Help: "Total number of followers scored",
			},
		),
	}

	m.registry.MustRegister(m.HTTPRequests, m.Analyses, m.AnalysisDuration, m.FollowersScored)
	return m
}

// Handler returns the /metrics handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(method, route string, code int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// ObserveAnalysis records one analysis run. followers is ignored on failure.
func (m *Metrics) ObserveAnalysis(platform string, elapsed time.Duration, followers int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Analyses.WithLabelValues(platform, result).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	if err == nil {
		m.FollowersScored.Add(float64(followers))
	}
}
