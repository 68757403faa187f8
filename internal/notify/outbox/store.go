// Package outbox persists notification events until the publisher worker
// ships them to Kafka. The postgres implementation gives the pipeline its
// at-least-once guarantee; the memory implementation backs unit tests and
// single-process development.
package outbox

import (
	"context"

	"ireporter/internal/notify"
)

// Store is the outbox contract. Append is called by services inside their
// write path; NextBatch/MarkPublished are called by the publisher worker.
type Store interface {
	Append(ctx context.Context, event notify.Event) error
	// NextBatch returns up to limit unpublished events in append order.
	NextBatch(ctx context.Context, limit int) ([]notify.Event, error)
	MarkPublished(ctx context.Context, ids []string) error
}
