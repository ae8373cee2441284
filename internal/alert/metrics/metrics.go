package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the alert module.
type Metrics struct {
	Created          *prometheus.CounterVec
	DeliveryFailures prometheus.Counter
	ResolvedTotal    prometheus.Counter
}

// New creates a Metrics instance with all alert metrics registered.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusgate_alerts_created_total",
			Help: "Total alerts created by type",
		}, []string{"type"}),

		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusgate_alert_delivery_failures_total",
			Help: "Total failed alert delivery attempts",
		}),

		ResolvedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusgate_alerts_resolved_total",
			Help: "Total alerts marked resolved",
		}),
	}
}

// IncrementCreated records a created alert.
func (m *Metrics) IncrementCreated(alertType string) {
	if m != nil {
		m.Created.WithLabelValues(alertType).Inc()
	}
}

// IncrementDeliveryFailure records one failed delivery attempt.
func (m *Metrics) IncrementDeliveryFailure() {
	if m != nil {
		m.DeliveryFailures.Inc()
	}
}

// IncrementResolved records an alert resolution.
func (m *Metrics) IncrementResolved() {
	if m != nil {
		m.ResolvedTotal.Inc()
	}
}
