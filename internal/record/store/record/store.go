// Package record persists citizen reports. Implementations return sentinel
// errors from pkg/platform/sentinel; services translate them to domain errors.
package record

import (
	"context"

	"ireporter/internal/record/models"
)

// Filter narrows list operations. The zero value matches everything.
type Filter struct {
	Type models.Type
}

type Store interface {
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, rec *models.Record) error
	FindByPublicID(ctx context.Context, publicID string) (*models.Record, error)
	ListByOwner(ctx context.Context, ownerID string, f Filter) ([]*models.Record, error)
	ListAll(ctx context.Context, f Filter) ([]*models.Record, error)
	Delete(ctx context.Context, publicID string) error
}
