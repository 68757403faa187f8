package token

import (
	"testing"
	"time"

	dErrors "ireporter/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService("test-signing-key", 15*time.Minute, 24*time.Hour)
}

func TestIssueAndValidateAccess(t *testing.T) {
	svc := newTestService()

	tok, err := svc.IssueAccess("user-public-id")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	claims, err := svc.Validate(tok, PurposeAccess)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-public-id" {
		t.Fatalf("expected user id round-trip, got %q", claims.UserID)
	}
	if claims.ID == "" {
		t.Fatalf("expected a JTI on issued tokens")
	}
}

func TestPurposeMismatchRejected(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.IssueRefresh("user-public-id")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if _, err := svc.Validate(refresh, PurposeAccess); err == nil {
		t.Fatalf("expected refresh token to fail access validation")
	} else if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", -time.Minute, 24*time.Hour)

	tok, err := svc.IssueAccess("user-public-id")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Validate(tok, PurposeAccess); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	tok, err := newTestService().IssueAccess("user-public-id")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewService("different-key", 15*time.Minute, 24*time.Hour)
	if _, err := other.Validate(tok, PurposeAccess); err == nil {
		t.Fatalf("expected token signed with another key to be rejected")
	}
}
