package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ireporter/internal/notify"
)

// MemoryStore keeps pending events in memory. It favors clarity over
// performance, matching the other in-memory stores.
type MemoryStore struct {
	mu        sync.Mutex
	pending   []notify.Event
	published []notify.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.pending = append(s.pending, event)
	return nil
}

func (s *MemoryStore) NextBatch(_ context.Context, limit int) ([]notify.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	batch := make([]notify.Event, limit)
	copy(batch, s.pending[:limit])
	return batch, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	remaining := s.pending[:0]
	for _, ev := range s.pending {
		if _, ok := idSet[ev.ID]; ok {
			s.published = append(s.published, ev)
		} else {
			remaining = append(remaining, ev)
		}
	}
	s.pending = remaining
	return nil
}

// Published returns events already shipped, for test assertions.
func (s *MemoryStore) Published() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Event, len(s.published))
	copy(out, s.published)
	return out
}

// Pending returns events not yet shipped, for test assertions.
func (s *MemoryStore) Pending() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Event, len(s.pending))
	copy(out, s.pending)
	return out
}
