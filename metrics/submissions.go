package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes
const (
	OutcomeDone       = "done"
	OutcomeFailed     = "failed"
	OutcomeValidation = "validation"
	OutcomeDuplicate  = "duplicate"
)

// Submissions counts order submission attempts. A nil *Submissions is valid
// and records nothing.
type Submissions struct {
	outcomes  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	fallbacks prometheus.Counter
}

// NewSubmissions registers the submission counters on registerer
func NewSubmissions(registerer prometheus.Registerer) *Submissions {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Submissions{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_submissions_total",
			Help: "Order submission attempts by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_submission_failures_total",
			Help: "Order submissions that stopped at a stage failure, by failed stage.",
		}, []string{"stage"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "first_payment_fallbacks_total",
			Help: "First payments recorded without an installment link because no first installment was found.",
		}),
	}
	registerer.MustRegister(m.outcomes, m.failures, m.fallbacks)
	return m
}

// Outcome counts one finished attempt
func (m *Submissions) Outcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// StageFailure counts an attempt that failed at stage
func (m *Submissions) StageFailure(stage string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(OutcomeFailed).Inc()
	m.failures.WithLabelValues(stage).Inc()
}

// FirstPaymentFallback counts an unlinked first payment
func (m *Submissions) FirstPaymentFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}
