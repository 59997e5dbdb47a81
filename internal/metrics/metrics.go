// Package metrics exposes Prometheus collectors for the inventory service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeCacheHit = "cache_hit"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	products       *prometheus.GaugeVec
	expiring       *prometheus.CounterVec
	sweeps         prometheus.Counter
}

// New creates the collectors and registers them with registerer, or with
// the default registerer when nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "larder_lookup_requests_total",
		Help: "Barcode lookups by provider and outcome.",
	}, []string{"provider", "outcome"})
	lookupDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "larder_lookup_duration_seconds",
		Help:    "Latency of a single provider call.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
	}, []string{"provider"})
	products := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "larder_products",
		Help: "Products currently stored, by location.",
	}, []string{"location"})
	expiring := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "larder_expiry_notifications_total",
		Help: "Product expiring events emitted, by notification type.",
	}, []string{"type"})
	sweeps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "larder_expiry_sweeps_total",
		Help: "Completed expiry sweeps.",
	})

	registerer.MustRegister(lookups, lookupDuration, products, expiring, sweeps)

	return &Metrics{
		lookups:        lookups,
		lookupDuration: lookupDuration,
		products:       products,
		expiring:       expiring,
		sweeps:         sweeps,
	}
}

// ObserveLookup counts one provider call (or cache read) and its outcome.
func (m *Metrics) ObserveLookup(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeCacheHit {
		m.lookupDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// SetProducts records the number of products stored at location.
func (m *Metrics) SetProducts(location string, count int) {
	if m == nil {
		return
	}
	m.products.WithLabelValues(location).Set(float64(count))
}

// IncExpiryNotification counts an emitted expiring event.
func (m *Metrics) IncExpiryNotification(notificationType string) {
	if m == nil {
		return
	}
	m.expiring.WithLabelValues(notificationType).Inc()
}

// IncSweep counts a completed expiry sweep.
func (m *Metrics) IncSweep() {
	if m == nil {
		return
	}
	m.sweeps.Inc()
}
