package user

import (
	"context"
	"sync"

	"ireporter/internal/identity/models"
	"ireporter/pkg/platform/sentinel"
)

// MemoryStore keeps users in maps keyed by public id with an email index.
// It intentionally favors clarity over performance.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[u.Email]; exists {
		return sentinel.ErrConflict
	}
	if u.WorkerID != "" {
		for _, existing := range s.users {
			if existing.WorkerID == u.WorkerID {
				return sentinel.ErrConflict
			}
		}
	}
	s.users[u.PublicID] = *u
	s.byEmail[u.Email] = u.PublicID
	return nil
}

func (s *MemoryStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[u.PublicID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if u.Email != current.Email {
		if _, taken := s.byEmail[u.Email]; taken {
			return sentinel.ErrConflict
		}
		delete(s.byEmail, current.Email)
		s.byEmail[u.Email] = u.PublicID
	}
	s.users[u.PublicID] = *u
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	publicID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u := s.users[publicID]
	return &u, nil
}

func (s *MemoryStore) FindByPublicID(_ context.Context, publicID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[publicID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[publicID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.users, publicID)
	return nil
}
