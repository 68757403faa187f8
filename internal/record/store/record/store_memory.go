package record

import (
	"context"
	"sort"
	"sync"

	"ireporter/internal/record/models"
	"ireporter/pkg/platform/sentinel"
)

// MemoryStore keeps records in a map keyed by public id.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.Record)}
}

func (s *MemoryStore) Create(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.PublicID]; exists {
		return sentinel.ErrConflict
	}
	s.records[rec.PublicID] = *rec
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.PublicID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[rec.PublicID] = *rec
	return nil
}

func (s *MemoryStore) FindByPublicID(_ context.Context, publicID string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[publicID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string, f Filter) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(rec models.Record) bool {
		return rec.OwnerID == ownerID && matches(rec, f)
	}), nil
}

func (s *MemoryStore) ListAll(_ context.Context, f Filter) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(rec models.Record) bool {
		return matches(rec, f)
	}), nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[publicID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, publicID)
	return nil
}

// collect returns newest-first, matching the postgres ORDER BY.
func (s *MemoryStore) collect(keep func(models.Record) bool) []*models.Record {
	out := make([]*models.Record, 0)
	for _, rec := range s.records {
		if keep(rec) {
			r := rec
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func matches(rec models.Record, f Filter) bool {
	return f.Type == "" || rec.Type == f.Type
}
