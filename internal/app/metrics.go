package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "artistly"

// Metrics holds the business counters exposed on /-/metrics.
// A nil *Metrics records nothing.
type Metrics struct {
	submissions       prometheus.Counter
	quoteRequests     prometheus.Counter
	storeFallbacks    *prometheus.CounterVec
	operationFailures *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "artist_submissions_total",
			Help:      "Artist profiles accepted through onboarding.",
		}),
		quoteRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quote_requests_total",
			Help:      "Quote requests recorded.",
		}),
		storeFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "store_fallbacks_total",
			Help:      "Reads that fell back to the default list because the stored value was unreadable.",
		}, []string{"store"}),
		operationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operation_failures_total",
			Help:      "Executor operations that failed, by step.",
		}, []string{"operation", "step"}),
	}
}

func (m *Metrics) submissionAccepted() {
	if m != nil {
		m.submissions.Inc()
	}
}

func (m *Metrics) quoteRecorded() {
	if m != nil {
		m.quoteRequests.Inc()
	}
}

func (m *Metrics) storeFellBack(store string) {
	if m != nil {
		m.storeFallbacks.WithLabelValues(store).Inc()
	}
}

func (m *Metrics) operationFailed(operation string, step ExecutionStep) {
	if m != nil {
		m.operationFailures.WithLabelValues(operation, string(step)).Inc()
	}
}
