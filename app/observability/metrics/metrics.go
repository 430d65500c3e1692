// Package metrics defines the service metrics recorded by every module and
// their Prometheus and no-op implementations.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceMetrics records the lifecycle of service operations.
type ServiceMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// LedgerMetrics adds vote ledger counters.
type LedgerMetrics interface {
	ServiceMetrics
	RecordVotesWritten(ctx context.Context, kind string, n int)
	RecordDeleteFailure(ctx context.Context)
}

// RecalculationMetrics adds score recalculation counters.
type RecalculationMetrics interface {
	ServiceMetrics
	RecordAdjustment(ctx context.Context, reason string, points int)
	RecordPlayersPersisted(ctx context.Context, n int)
	RecordCASRetry(ctx context.Context)
}

// Prometheus implements every metrics interface on a single registry.
type Prometheus struct {
	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	votesWritten   *prometheus.CounterVec
	deleteFailures prometheus.Counter
	adjustments    *prometheus.CounterVec
	adjustedPoints *prometheus.CounterVec
	playersWritten prometheus.Counter
	casRetries     prometheus.Counter
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_operation_attempts_total",
			Help: "Service operations started.",
		}, []string{"service", "operation"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_operation_success_total",
			Help: "Service operations that completed without an infrastructure error.",
		}, []string{"service", "operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_operation_failures_total",
			Help: "Service operations that returned an error or panicked.",
		}, []string{"service", "operation"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wieler_operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		votesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_votes_written_total",
			Help: "Vote records created, by submission kind.",
		}, []string{"kind"}),
		deleteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wieler_vote_delete_failures_total",
			Help: "Vote deletes that failed during a replace.",
		}),
		adjustments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_score_adjustments_total",
			Help: "Score adjustments applied by the recalculator.",
		}, []string{"reason"}),
		adjustedPoints: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wieler_score_adjusted_points_total",
			Help: "Absolute points moved by the recalculator.",
		}, []string{"reason"}),
		playersWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wieler_players_persisted_total",
			Help: "Player totals written by the recalculator.",
		}),
		casRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "wieler_player_points_cas_retries_total",
			Help: "Compare-and-set retries on player points.",
		}),
	}
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.attempts.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.successes.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.failures.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	p.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (p *Prometheus) RecordVotesWritten(_ context.Context, kind string, n int) {
	p.votesWritten.WithLabelValues(kind).Add(float64(n))
}

func (p *Prometheus) RecordDeleteFailure(_ context.Context) {
	p.deleteFailures.Inc()
}

func (p *Prometheus) RecordAdjustment(_ context.Context, reason string, points int) {
	p.adjustments.WithLabelValues(reason).Inc()
	if points < 0 {
		points = -points
	}
	p.adjustedPoints.WithLabelValues(reason).Add(float64(points))
}

func (p *Prometheus) RecordPlayersPersisted(_ context.Context, n int) {
	p.playersWritten.Add(float64(n))
}

func (p *Prometheus) RecordCASRetry(_ context.Context) {
	p.casRetries.Inc()
}

// Noop discards everything.
type Noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordOperationAttempt(context.Context, string, string) {}
func (*Noop) RecordOperationSuccess(context.Context, string, string) {}
func (*Noop) RecordOperationFailure(context.Context, string, string) {}
func (*Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (*Noop) RecordVotesWritten(context.Context, string, int) {}
func (*Noop) RecordDeleteFailure(context.Context) {}
func (*Noop) RecordAdjustment(context.Context, string, int) {}
func (*Noop) RecordPlayersPersisted(context.Context, int) {}
func (*Noop) RecordCASRetry(context.Context) {}

var (
	_ LedgerMetrics        = (*Prometheus)(nil)
	_ RecalculationMetrics = (*Prometheus)(nil)
	_ LedgerMetrics        = (*Noop)(nil)
	_ RecalculationMetrics = (*Noop)(nil)
)
