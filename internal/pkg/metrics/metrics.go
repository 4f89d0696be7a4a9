// Package metrics registers the Prometheus instruments the service emits.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RegistrationsTotal prometheus.Counter
	LoginFailuresTotal prometheus.Counter
	CapacityChanges    prometheus.Counter
	HTTPDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the instruments on reg; tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "clinic_registrations_total",
			Help: "Total number of users registered.",
		}),
		LoginFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "clinic_login_failures_total",
			Help: "Total number of failed login attempts.",
		}),
		CapacityChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "clinic_provider_capacity_changes_total",
			Help: "Total number of provider capacity increments.",
		}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}
