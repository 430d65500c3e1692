package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecordsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "SubmitVotes", "VoteService")
	m.RecordOperationAttempt(ctx, "SubmitVotes", "VoteService")
	m.RecordOperationFailure(ctx, "SubmitVotes", "VoteService")
	m.RecordOperationDuration(ctx, "SubmitVotes", "VoteService", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("VoteService", "SubmitVotes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("VoteService", "SubmitVotes")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestPrometheusAdjustmentsUseAbsolutePoints(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())
	ctx := context.Background()

	m.RecordAdjustment(ctx, "elimination", -20)
	m.RecordAdjustment(ctx, "mole", 40)

	assert.Equal(t, 20.0, testutil.ToFloat64(m.adjustedPoints.WithLabelValues("elimination")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.adjustedPoints.WithLabelValues("mole")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.adjustments.WithLabelValues("mole")))
}
