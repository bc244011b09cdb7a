package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Navigation results
const (
	NavigationAccepted = "accepted"
	NavigationRejected = "rejected"
)

// Fetch result outcomes
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeGone    = "gone"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Browser core metrics
	TabsOpen        prometheus.Gauge
	Navigations     *prometheus.CounterVec
	FetchesInFlight prometheus.Gauge
	FetchDuration   *prometheus.HistogramVec
	Results         *prometheus.CounterVec
	Panics          prometheus.Counter

	// HTTP front end metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TabsOpen        int64   `json:"tabs_open"`
	FetchesInFlight int64   `json:"fetches_inflight"`
	Navigations     int64   `json:"navigations"`
	Applied         int64   `json:"applied"`
	Stale           int64   `json:"stale"`
	Panics          int64   `json:"panics"`
	HTTPRequests    int64   `json:"http_requests"`
	WSConnections   int64   `json:"ws_connections"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics registers the collectors with reg. Pass a fresh
// prometheus.NewRegistry() in tests; nil means the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		TabsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "asterix_tabs_open",
				Help: "Number of open tabs",
			},
		),
		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterix_navigations_total",
				Help: "Navigation requests by result",
			},
			[]string{"result"},
		),
		FetchesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "asterix_fetches_inflight",
				Help: "Document fetches currently running",
			},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asterix_fetch_duration_seconds",
				Help:    "Document fetch duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		Results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterix_results_total",
				Help: "Fetch results by outcome (applied, stale, gone)",
			},
			[]string{"outcome"},
		),
		Panics: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "asterix_panics_total",
				Help: "Panics recovered in fetch tasks and command handlers",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterix_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asterix_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "asterix_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterix_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "asterix_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// SetTabsOpen sets the number of open tabs
func (m *Metrics) SetTabsOpen(count int) {
	m.TabsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.TabsOpen = int64(count)
	m.mu.Unlock()
}

// RecordNavigation counts a navigation request as accepted or rejected
func (m *Metrics) RecordNavigation(result string) {
	m.Navigations.WithLabelValues(result).Inc()
	if result == NavigationAccepted {
		m.mu.Lock()
		m.snapshot.Navigations++
		m.mu.Unlock()
	}
}

// FetchStarted marks a fetch as in flight
func (m *Metrics) FetchStarted() {
	m.FetchesInFlight.Inc()
	m.mu.Lock()
	m.snapshot.FetchesInFlight++
	m.mu.Unlock()
}

// FetchFinished records a finished fetch
func (m *Metrics) FetchFinished(status string, duration time.Duration) {
	m.FetchesInFlight.Dec()
	m.FetchDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.mu.Lock()
	m.snapshot.FetchesInFlight--
	m.mu.Unlock()
}

// RecordResult counts a fetch result by what happened to it
func (m *Metrics) RecordResult(outcome string) {
	m.Results.WithLabelValues(outcome).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	switch outcome {
	case OutcomeApplied:
		m.snapshot.Applied++
	case OutcomeStale:
		m.snapshot.Stale++
	}
}

// IncPanics counts a recovered panic
func (m *Metrics) IncPanics() {
	m.Panics.Inc()
	m.mu.Lock()
	m.snapshot.Panics++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.HTTPRequests++
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.WSConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.WSConnections--
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON health endpoint
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
