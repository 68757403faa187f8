// Package media persists attachment rows. Implementations return sentinel
// errors from pkg/platform/sentinel; the service translates them.
package media

import (
	"context"

	"ireporter/internal/media/models"
)

type Store interface {
	Create(ctx context.Context, m *models.Media) error
	Update(ctx context.Context, m *models.Media) error
	FindByPublicID(ctx context.Context, publicID string) (*models.Media, error)
	ListByRecord(ctx context.Context, recordID string, kind models.Kind) ([]*models.Media, error)
	Delete(ctx context.Context, publicID string) error
}
