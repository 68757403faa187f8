// Package revocation tracks access token JTIs invalidated by logout. Entries
// expire with the token itself, so the list stays small.
package revocation

import (
	"context"
	"time"

	dErrors "ireporter/pkg/domain-errors"
)

// Store is the revocation list contract consumed by the auth middleware and
// the logout operation.
type Store interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const maxTTL = 30 * 24 * time.Hour

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "revocation TTL must be positive")
	}
	if ttl > maxTTL {
		return dErrors.New(dErrors.CodeInvariantViolation, "revocation TTL exceeds maximum")
	}
	return nil
}
