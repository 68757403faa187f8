package outbox

import (
	"context"
	"testing"

	"ireporter/internal/notify"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, notify.Event{Kind: notify.KindVerifyEmail, Recipient: "a@example.com"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	pending := store.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}
	if pending[0].ID == "" || pending[0].CreatedAt.IsZero() {
		t.Fatalf("append must assign id and timestamp: %+v", pending[0])
	}
}

func TestNextBatchHonorsLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, notify.Event{Kind: notify.KindStatusChange, Recipient: "a@example.com"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	batch, err := store.NextBatch(ctx, 3)
	if err != nil {
		t.Fatalf("next batch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3, got %d", len(batch))
	}
	// Reading a batch does not consume it.
	again, err := store.NextBatch(ctx, 10)
	if err != nil {
		t.Fatalf("next batch: %v", err)
	}
	if len(again) != 5 {
		t.Fatalf("expected 5, got %d", len(again))
	}
}

func TestMarkPublishedMovesEvents(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, notify.Event{ID: "keep", Kind: notify.KindStatusChange, Recipient: "a@example.com"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, notify.Event{ID: "done", Kind: notify.KindStatusChange, Recipient: "a@example.com"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := store.MarkPublished(ctx, []string{"done"}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending := store.Pending()
	if len(pending) != 1 || pending[0].ID != "keep" {
		t.Fatalf("expected only keep pending, got %+v", pending)
	}
	published := store.Published()
	if len(published) != 1 || published[0].ID != "done" {
		t.Fatalf("expected done published, got %+v", published)
	}
}
