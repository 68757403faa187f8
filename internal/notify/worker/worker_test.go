package worker

import (
	"context"
	"errors"
	"testing"

	"ireporter/internal/notify"
	"ireporter/internal/notify/outbox"
)

type fakePublisher struct {
	published []notify.Event
	failIDs   map[string]bool
}

func (p *fakePublisher) Publish(_ context.Context, event notify.Event) error {
	if p.failIDs[event.ID] {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func appendEvent(t *testing.T, store *outbox.MemoryStore, id string) {
	t.Helper()
	err := store.Append(context.Background(), notify.Event{
		ID:        id,
		Kind:      notify.KindStatusChange,
		Recipient: "owner@example.com",
		RecordID:  "rec-1",
		Status:    "resolved",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestDrainPublishesAndMarks(t *testing.T) {
	store := outbox.NewMemoryStore()
	pub := &fakePublisher{}
	w := New(store, pub)

	appendEvent(t, store, "ev-1")
	appendEvent(t, store, "ev-2")

	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected 2 published, got %d", len(pub.published))
	}
	if len(store.Pending()) != 0 {
		t.Fatalf("expected empty outbox, got %d pending", len(store.Pending()))
	}
	if len(store.Published()) != 2 {
		t.Fatalf("expected 2 marked published, got %d", len(store.Published()))
	}
}

func TestDrainRetriesFailedEvents(t *testing.T) {
	store := outbox.NewMemoryStore()
	pub := &fakePublisher{failIDs: map[string]bool{"ev-bad": true}}
	w := New(store, pub)

	appendEvent(t, store, "ev-good")
	appendEvent(t, store, "ev-bad")

	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].ID != "ev-good" {
		t.Fatalf("expected only ev-good published, got %+v", pub.published)
	}
	// The failed event stays pending for the next tick.
	pending := store.Pending()
	if len(pending) != 1 || pending[0].ID != "ev-bad" {
		t.Fatalf("expected ev-bad pending, got %+v", pending)
	}

	pub.failIDs = nil
	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if len(store.Pending()) != 0 {
		t.Fatalf("expected empty outbox after retry")
	}
}

func TestDrainEmptyOutboxIsNoop(t *testing.T) {
	store := outbox.NewMemoryStore()
	pub := &fakePublisher{}
	w := New(store, pub)

	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing should be published")
	}
}
