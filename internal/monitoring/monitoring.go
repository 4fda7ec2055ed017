// Package monitoring exposes Prometheus counters for the status service.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so that tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry
	cache    *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	statuses *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "empstatus_cache_requests_total",
			Help: "Response cache lookups by result.",
		}, []string{"result"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "empstatus_requests_total",
			Help: "Status requests by outcome.",
		}, []string{"outcome"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "empstatus_status_total",
			Help: "Computed status tiers.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.cache, m.outcomes, m.statuses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CacheHit() {
	m.cache.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	m.cache.WithLabelValues("miss").Inc()
}

func (m *Metrics) RecordOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordStatus(status string) {
	m.statuses.WithLabelValues(status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
// Compression is left to the router's gzip middleware.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{DisableCompression: true})
}
