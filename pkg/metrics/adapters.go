package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdapterMetrics records calls against the external inference and geocoding
// services.
type AdapterMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewAdapterMetrics registers the adapter metrics on the provided registerer.
func NewAdapterMetrics(reg prometheus.Registerer) *AdapterMetrics {
	if reg == nil {
		return &AdapterMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adapter_call_duration_seconds",
		Help:    "Duration of outbound adapter calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"adapter"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adapter_call_success",
		Help: "Successful outbound adapter calls.",
	}, []string{"adapter"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adapter_call_failure",
		Help: "Failed outbound adapter calls.",
	}, []string{"adapter"})
	reg.MustRegister(duration, success, failure)
	return &AdapterMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named adapter.
func (a *AdapterMetrics) ObserveDuration(adapter string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(adapter)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named adapter.
func (a *AdapterMetrics) IncSuccess(adapter string) {
	if a == nil || a.success == nil {
		return
	}
	a.success.WithLabelValues(normalizeLabel(adapter)).Inc()
}

// IncFailure increments the failure counter for the named adapter.
func (a *AdapterMetrics) IncFailure(adapter string) {
	if a == nil || a.failure == nil {
		return
	}
	a.failure.WithLabelValues(normalizeLabel(adapter)).Inc()
}
