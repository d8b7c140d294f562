// Package metrics provides the counter recorder the auth flows report
// into, plus the HTTP-level prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives named counter increments from the service layer. It
// is injected as a constructor dependency, never reached through a
// package singleton, and must be safe for concurrent use.
type Recorder interface {
	Increment(name string, amount int)
}

// Counters is an in-process Recorder backed by a mutex-guarded map.
// Used in tests and as a fallback when prometheus is not wired.
type Counters struct {
	mu sync.Mutex
	m  map[string]int
}

func NewCounters() *Counters {
	return &Counters{m: make(map[string]int)}
}

func (c *Counters) Increment(name string, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[name] += amount
}

func (c *Counters) Get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[name]
}

// Snapshot copies all counters for inspection.
func (c *Counters) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}

// Reset clears all counters (testing).
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]int)
}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goh_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goh_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	authEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goh_auth_events_total",
			Help: "Named auth flow counters (register/login/refresh/magic link outcomes).",
		},
		[]string{"name"},
	)
)

// MustRegister installs all collectors into the default registry. Call
// once at startup.
func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		authEventsTotal,
	)
}

// PrometheusRecorder exposes the service-level counters through the
// goh_auth_events_total vector.
type PrometheusRecorder struct{}

func (PrometheusRecorder) Increment(name string, amount int) {
	authEventsTotal.WithLabelValues(name).Add(float64(amount))
}
