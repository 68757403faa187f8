package revocation

import (
	"context"
	"testing"
	"time"

	dErrors "ireporter/pkg/domain-errors"
)

func TestMemoryStoreRevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected unknown jti to be unrevoked, got %v %v", revoked, err)
	}

	if err := store.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti to be revoked, got %v %v", revoked, err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore(WithClock(func() time.Time { return now }))

	if err := store.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	now = now.Add(2 * time.Minute)
	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if revoked {
		t.Fatalf("expected revocation to lapse with token expiry")
	}
}

func TestInvalidTTLRejected(t *testing.T) {
	store := NewMemoryStore()
	err := store.Revoke(context.Background(), "jti-1", 0)
	if err == nil || !dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation for zero TTL, got %v", err)
	}
}
