package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	Attempts        *prometheus.CounterVec
	Denials         *prometheus.CounterVec
	EvidenceLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusgate_verification_attempts_total",
			Help: "Total verification attempts by method and outcome",
		}, []string{"method", "outcome"}),

		Denials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusgate_verification_denials_total",
			Help: "Total denied attempts by reason",
		}, []string{"reason"}),

		EvidenceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campusgate_verification_evidence_latency_seconds",
			Help:    "Registry lookup latency by source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
	}
}

// ObserveAttempt records one settled attempt.
func (m *Metrics) ObserveAttempt(method string, granted bool) {
	if m != nil {
		outcome := "denied"
		if granted {
			outcome = "granted"
		}
		m.Attempts.WithLabelValues(method, outcome).Inc()
	}
}

// IncrementDenial records a denial by reason.
func (m *Metrics) IncrementDenial(reason string) {
	if m != nil {
		m.Denials.WithLabelValues(reason).Inc()
	}
}

// ObserveEvidenceLatency records one registry lookup duration.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}
