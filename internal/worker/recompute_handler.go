// Package worker consumes background tasks enqueued by the API.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"devcamper/internal/observability"
	"devcamper/internal/tasks"

	"github.com/hibiken/asynq"
)

// Recomputer rewrites one derived aggregate of a bootcamp.
type Recomputer interface {
	Recompute(ctx context.Context, bootcampID uint, kind string) error
}

// RecomputeHandler consumes aggregate:recompute tasks.
type RecomputeHandler struct {
	aggregates Recomputer
	logger     *slog.Logger
}

func NewRecomputeHandler(aggregates Recomputer, logger *slog.Logger) *RecomputeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecomputeHandler{aggregates: aggregates, logger: logger}
}

// ProcessTask implements asynq.Handler. Malformed payloads are not retried.
func (h *RecomputeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseAggregateRecomputePayload(t.Payload())
	if err != nil {
		h.logger.ErrorContext(ctx, "invalid recompute payload", slog.Any("error", err))
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if id, ok := asynq.GetTaskID(ctx); ok {
		ctx = observability.WithCorrelationID(ctx, id)
	}
	log := h.logger.With(
		slog.Uint64("bootcamp_id", uint64(payload.BootcampID)),
		slog.String("kind", payload.Kind),
	)
	if err := h.aggregates.Recompute(ctx, payload.BootcampID, payload.Kind); err != nil {
		log.ErrorContext(ctx, "recompute retry failed", slog.Any("error", err))
		return err
	}
	log.InfoContext(ctx, "recompute retry succeeded")
	return nil
}

// NewServeMux routes every task type the worker understands.
func NewServeMux(aggregates Recomputer, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(MetricsMiddleware())
	mux.Handle(tasks.TypeAggregateRecompute, NewRecomputeHandler(aggregates, logger))
	return mux
}
