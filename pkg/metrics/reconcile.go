package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics tracks checkout reconciliation outcomes.
type ReconcileMetrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

// Reconciliation outcome labels.
const (
	ReconcileOutcomeCompleted      = "completed"
	ReconcileOutcomeAlreadyPaid    = "already_paid"
	ReconcileOutcomePending        = "pending"
	ReconcileOutcomeGatewayFailure = "gateway_failure"
)

// NewReconcileMetrics registers the reconciliation metrics on the provided
// registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_reconcile_total",
		Help:      "Checkout reconciliation attempts by outcome.",
	}, []string{"outcome", "source"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_reconcile_duration_seconds",
		Help:      "Duration of checkout reconciliation in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
	reg.MustRegister(outcomes, duration)
	return &ReconcileMetrics{outcomes: outcomes, duration: duration}
}

// IncOutcome increments the counter for an outcome and the source that drove
// the reconciliation (webhook, poll, cron).
func (m *ReconcileMetrics) IncOutcome(outcome, source string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome), normalizeLabel(source)).Inc()
}

// ObserveDuration records how long a reconciliation took.
func (m *ReconcileMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
