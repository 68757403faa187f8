// Package worker drains the notification outbox into the publisher.
package worker

import (
	"context"
	"log/slog"
	"time"

	"ireporter/internal/notify"
	"ireporter/internal/platform/metrics"
)

// Outbox is the pending-event source.
type Outbox interface {
	NextBatch(ctx context.Context, limit int) ([]notify.Event, error)
	MarkPublished(ctx context.Context, ids []string) error
}

// Publisher forwards one event downstream.
type Publisher interface {
	Publish(ctx context.Context, event notify.Event) error
}

// Worker polls the outbox on an interval and publishes pending events.
// Events that fail to publish stay pending and are retried on the next
// tick, so delivery is at-least-once.
type Worker struct {
	outbox    Outbox
	publisher Publisher
	interval  time.Duration
	batchSize int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.interval = d
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		w.batchSize = n
	}
}

// New constructs a Worker.
func New(outbox Outbox, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		publisher: publisher,
		interval:  2 * time.Second,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the outbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of pending events.
func (w *Worker) Drain(ctx context.Context) error {
	batch, err := w.outbox.NextBatch(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	published := make([]string, 0, len(batch))
	for _, event := range batch {
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.metrics.IncNotificationsFailed()
			w.logger.WarnContext(ctx, "failed to publish notification",
				"event_id", event.ID,
				"kind", event.Kind,
				"error", err,
			)
			continue
		}
		w.metrics.IncNotificationsPublished()
		published = append(published, event.ID)
	}
	if len(published) == 0 {
		return nil
	}
	return w.outbox.MarkPublished(ctx, published)
}
