package media

import (
	"context"
	"sort"
	"sync"

	"ireporter/internal/media/models"
	"ireporter/pkg/platform/sentinel"
)

// MemoryStore keeps media rows in a map keyed by public id.
type MemoryStore struct {
	mu    sync.RWMutex
	media map[string]models.Media
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{media: make(map[string]models.Media)}
}

func (s *MemoryStore) Create(_ context.Context, m *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.media[m.PublicID]; exists {
		return sentinel.ErrConflict
	}
	s.media[m.PublicID] = *m
	return nil
}

func (s *MemoryStore) Update(_ context.Context, m *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[m.PublicID]; !ok {
		return sentinel.ErrNotFound
	}
	s.media[m.PublicID] = *m
	return nil
}

func (s *MemoryStore) FindByPublicID(_ context.Context, publicID string) (*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.media[publicID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) ListByRecord(_ context.Context, recordID string, kind models.Kind) ([]*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Media, 0)
	for _, m := range s.media {
		if m.RecordID == recordID && (kind == "" || m.Kind == kind) {
			item := m
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[publicID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.media, publicID)
	return nil
}
