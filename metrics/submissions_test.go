package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSubmissionsCounters(t *testing.T) {
	m := NewSubmissions(prometheus.NewRegistry())

	m.Outcome(OutcomeDone)
	m.Outcome(OutcomeDone)
	m.StageFailure("items_persisted")
	m.FirstPaymentFallback()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.outcomes.WithLabelValues(OutcomeDone)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomes.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("items_persisted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fallbacks))
}

func TestNilSubmissionsIsNoop(t *testing.T) {
	var m *Submissions
	assert.NotPanics(t, func() {
		m.Outcome(OutcomeValidation)
		m.StageFailure("order_created")
		m.FirstPaymentFallback()
	})
}
