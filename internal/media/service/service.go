// Package service implements attachment operations: upload, listing,
// uploader-only delete and video replacement.
package service

import (
	"context"
	"io"
	"log/slog"

	"ireporter/internal/media/models"
	"ireporter/internal/platform/metrics"
	recordmodels "ireporter/internal/record/models"
)

// MediaStore is the attachment persistence contract. Implementations return
// sentinel errors; this service translates them.
type MediaStore interface {
	Create(ctx context.Context, m *models.Media) error
	Update(ctx context.Context, m *models.Media) error
	FindByPublicID(ctx context.Context, publicID string) (*models.Media, error)
	ListByRecord(ctx context.Context, recordID string, kind models.Kind) ([]*models.Media, error)
	Delete(ctx context.Context, publicID string) error
}

// RecordFinder resolves the parent record for authorization.
type RecordFinder interface {
	FindByPublicID(ctx context.Context, publicID string) (*recordmodels.Record, error)
}

// Uploader stores attachment bytes and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Service orchestrates attachment operations.
type Service struct {
	media    MediaStore
	records  RecordFinder
	uploader Uploader

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

// New constructs a Service.
func New(media MediaStore, records RecordFinder, uploader Uploader, opts ...Option) *Service {
	s := &Service{
		media:    media,
		records:  records,
		uploader: uploader,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
