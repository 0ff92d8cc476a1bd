package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"devcamper/internal/observability"
	"devcamper/internal/repository"
	"devcamper/internal/tasks"
)

// AggregateMaintainer keeps Bootcamp.AverageCost and Bootcamp.AverageRating
// equal to the aggregate of the bootcamp's current courses and reviews.
// Every recompute is a full recomputation, so repeating one is harmless.
type AggregateMaintainer struct {
	repo         repository.AggregateRepository
	retry        tasks.Enqueuer
	retryEnabled func() bool
	logger       *slog.Logger
}

// AggregateOption configures an AggregateMaintainer.
type AggregateOption func(*AggregateMaintainer)

// WithRetryQueue hands failed recomputes to e while enabled reports true.
func WithRetryQueue(e tasks.Enqueuer, enabled func() bool) AggregateOption {
	return func(m *AggregateMaintainer) {
		m.retry = e
		m.retryEnabled = enabled
	}
}

// WithAggregateLogger sets the logger for swallowed failures.
func WithAggregateLogger(l *slog.Logger) AggregateOption {
	return func(m *AggregateMaintainer) { m.logger = l }
}

func NewAggregateMaintainer(repo repository.AggregateRepository, opts ...AggregateOption) *AggregateMaintainer {
	m := &AggregateMaintainer{repo: repo}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = loggerOrDefault(m.logger)
	return m
}

// RoundCost rounds an average tuition up to the next multiple of 10.
func RoundCost(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}

// RecomputeCost writes ceil(AVG(tuition)/10)*10, or NULL without courses.
func (m *AggregateMaintainer) RecomputeCost(ctx context.Context, bootcampID uint) error {
	ctx, span := observability.GetTraceLayer().TraceServiceToRepository(ctx, "aggregates", "RecomputeCost")
	defer span.End()

	avg, err := m.repo.AverageTuition(ctx, bootcampID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("average tuition for bootcamp %d: %w", bootcampID, err)
	}
	var cost *float64
	if avg.Valid {
		v := RoundCost(avg.Float64)
		cost = &v
	}
	rows, err := m.repo.SetAverageCost(ctx, bootcampID, cost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("write average cost for bootcamp %d: %w", bootcampID, err)
	}
	m.logMissing(ctx, bootcampID, tasks.KindCost, rows)
	return nil
}

// RecomputeRating writes AVG(rating), or NULL without reviews.
func (m *AggregateMaintainer) RecomputeRating(ctx context.Context, bootcampID uint) error {
	ctx, span := observability.GetTraceLayer().TraceServiceToRepository(ctx, "aggregates", "RecomputeRating")
	defer span.End()

	avg, err := m.repo.AverageRating(ctx, bootcampID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("average rating for bootcamp %d: %w", bootcampID, err)
	}
	var rating *float64
	if avg.Valid {
		v := avg.Float64
		rating = &v
	}
	rows, err := m.repo.SetAverageRating(ctx, bootcampID, rating)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("write average rating for bootcamp %d: %w", bootcampID, err)
	}
	m.logMissing(ctx, bootcampID, tasks.KindRating, rows)
	return nil
}

func (m *AggregateMaintainer) logMissing(ctx context.Context, bootcampID uint, kind string, rows int64) {
	if rows == 0 {
		m.logger.DebugContext(ctx, "aggregate target no longer exists",
			slog.Uint64("bootcamp_id", uint64(bootcampID)),
			slog.String("kind", kind),
		)
	}
}

// Recompute dispatches on kind and records the outcome.
func (m *AggregateMaintainer) Recompute(ctx context.Context, bootcampID uint, kind string) error {
	var err error
	switch kind {
	case tasks.KindCost:
		err = m.RecomputeCost(ctx, bootcampID)
	case tasks.KindRating:
		err = m.RecomputeRating(ctx, bootcampID)
	default:
		err = fmt.Errorf("unknown aggregate kind %q", kind)
	}
	observability.AggregateRecomputes.WithLabelValues(kind, observability.ResultLabel(err)).Inc()
	return err
}

// Refresh runs after a committed course or review change. A failure is
// logged and queued for retry; it never reaches the caller.
func (m *AggregateMaintainer) Refresh(ctx context.Context, bootcampID uint, kind string) {
	err := m.Recompute(ctx, bootcampID, kind)
	if err == nil {
		return
	}
	m.logger.ErrorContext(ctx, "aggregate recompute failed",
		slog.Uint64("bootcamp_id", uint64(bootcampID)),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)

	if m.retry == nil || (m.retryEnabled != nil && !m.retryEnabled()) {
		return
	}
	qerr := m.retry.EnqueueRecompute(ctx, bootcampID, kind)
	observability.AggregateRetriesEnqueued.WithLabelValues(kind, observability.ResultLabel(qerr)).Inc()
	if qerr != nil {
		m.logger.ErrorContext(ctx, "aggregate retry not enqueued",
			slog.Uint64("bootcamp_id", uint64(bootcampID)),
			slog.String("kind", kind),
			slog.String("error", qerr.Error()),
		)
	}
}
