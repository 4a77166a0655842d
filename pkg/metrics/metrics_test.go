package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(EmailsSent.WithLabelValues(KindOTP))
	EmailsSent.WithLabelValues(KindOTP).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(EmailsSent.WithLabelValues(KindOTP)))

	before = testutil.ToFloat64(SchedulerRuns.WithLabelValues("ok"))
	SchedulerRuns.WithLabelValues("ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SchedulerRuns.WithLabelValues("ok")))

	before = testutil.ToFloat64(Enrollments.WithLabelValues("enrolled"))
	Enrollments.WithLabelValues("enrolled").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Enrollments.WithLabelValues("enrolled")))
}
