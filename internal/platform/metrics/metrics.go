package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared by the feature services.
// All methods are nil-safe so services can run unmetered in tests.
type Metrics struct {
	EntitiesCreated    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	CommitConflicts    prometheus.Counter
}

// New creates and registers all metrics on the default registry.
// Call once at process start.
func New() *Metrics {
	return &Metrics{
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finbook_entities_created_total",
			Help: "Total entities created, by entity kind",
		}, []string{"entity"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finbook_validation_failures_total",
			Help: "Validation pipeline failures, by operation and error code",
		}, []string{"operation", "code"}),
		CommitConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_commit_conflicts_total",
			Help: "Unit-of-work commits rejected by a uniqueness invariant",
		}),
	}
}

// IncrementCreated records a successful entity creation.
func (m *Metrics) IncrementCreated(entity string) {
	if m == nil {
		return
	}
	m.EntitiesCreated.WithLabelValues(entity).Inc()
}

// ObserveValidationFailure records each code of a failed pipeline run.
func (m *Metrics) ObserveValidationFailure(operation string, codes []string) {
	if m == nil {
		return
	}
	for _, code := range codes {
		m.ValidationFailures.WithLabelValues(operation, code).Inc()
	}
}

// IncrementCommitConflict records a commit rejected by the store.
func (m *Metrics) IncrementCommitConflict() {
	if m == nil {
		return
	}
	m.CommitConflicts.Inc()
}
