// Package user provides the identity store in memory and PostgreSQL
// flavors. Both return sentinel errors; translation to domain errors happens
// in the service layer.
package user

import (
	"context"

	"ireporter/internal/identity/models"
)

type Store interface {
	// Create persists a new user. Returns sentinel.ErrConflict when the
	// email or worker id is already taken.
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.User, error)
	Delete(ctx context.Context, publicID string) error
}
