// Package service implements record operations: creation, owner edits, the
// admin status transition with its notification side effect, listing and
// deletion.
package service

import (
	"context"
	"log/slog"

	identitymodels "ireporter/internal/identity/models"
	"ireporter/internal/notify"
	"ireporter/internal/platform/metrics"
	"ireporter/internal/record/models"
	"ireporter/internal/record/store/record"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// RecordStore is the record persistence contract. Implementations return
// sentinel errors; this service translates them.
type RecordStore interface {
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, rec *models.Record) error
	FindByPublicID(ctx context.Context, publicID string) (*models.Record, error)
	ListByOwner(ctx context.Context, ownerID string, f record.Filter) ([]*models.Record, error)
	ListAll(ctx context.Context, f record.Filter) ([]*models.Record, error)
	Delete(ctx context.Context, publicID string) error
}

// UserDirectory resolves record owners to their registered email for
// status-change notifications.
type UserDirectory interface {
	FindByPublicID(ctx context.Context, publicID string) (*identitymodels.User, error)
}

// Outbox receives notification events produced by status transitions.
type Outbox interface {
	Append(ctx context.Context, event notify.Event) error
}

// Attachments removes a record's media when the record itself is deleted.
// Purging runs before the record row goes away so object keys can still be
// resolved.
type Attachments interface {
	PurgeRecord(ctx context.Context, recordID string) error
}

// Service orchestrates record operations.
type Service struct {
	records     RecordStore
	users       UserDirectory
	outbox      Outbox
	attachments Attachments

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAttachments(a Attachments) Option {
	return func(s *Service) {
		s.attachments = a
	}
}

// New constructs a Service.
func New(records RecordStore, users UserDirectory, outbox Outbox, opts ...Option) *Service {
	s := &Service{
		records: records,
		users:   users,
		outbox:  outbox,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
