package authz

import (
	"testing"

	dErrors "ireporter/pkg/domain-errors"
)

var (
	owner    = Citizen{ID: "owner-id"}
	stranger = Citizen{ID: "stranger-id"}
	admin    = Admin{ID: "admin-id", WorkerID: "worker_id_1"}
)

func wantCode(t *testing.T, err error, code dErrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !dErrors.HasCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestNilPrincipalFailsBeforeOwnership(t *testing.T) {
	// Unauthenticated access fails with unauthorized regardless of the
	// ownership facts passed in.
	wantCode(t, CanReadRecord(nil, "owner-id"), dErrors.CodeUnauthorized)
	wantCode(t, CanEditRecord(nil, "owner-id", true), dErrors.CodeUnauthorized)
	wantCode(t, CanUpdateStatus(nil), dErrors.CodeUnauthorized)
	wantCode(t, CanDeleteRecord(nil, "owner-id"), dErrors.CodeUnauthorized)
	wantCode(t, CanDeleteMedia(nil, "owner-id"), dErrors.CodeUnauthorized)
	wantCode(t, CanListAll(nil), dErrors.CodeUnauthorized)
	wantCode(t, CanViewUser(nil, "owner-id"), dErrors.CodeUnauthorized)
	wantCode(t, CanUpdateUser(nil, "owner-id"), dErrors.CodeUnauthorized)
	wantCode(t, CanDeleteUser(nil, "owner-id"), dErrors.CodeUnauthorized)
}

func TestCanReadRecord(t *testing.T) {
	if err := CanReadRecord(owner, owner.ID); err != nil {
		t.Fatalf("owner read should be permitted: %v", err)
	}
	if err := CanReadRecord(admin, owner.ID); err != nil {
		t.Fatalf("admin read should be permitted: %v", err)
	}
	wantCode(t, CanReadRecord(stranger, owner.ID), dErrors.CodeForbidden)
}

func TestCanListAll(t *testing.T) {
	if err := CanListAll(admin); err != nil {
		t.Fatalf("admin list should be permitted: %v", err)
	}
	wantCode(t, CanListAll(owner), dErrors.CodeForbidden)
}

func TestCanEditRecord(t *testing.T) {
	if err := CanEditRecord(owner, owner.ID, true); err != nil {
		t.Fatalf("owner edit of initial-status record should be permitted: %v", err)
	}

	// Owner of a progressed record gets forbidden, not a validation error.
	wantCode(t, CanEditRecord(owner, owner.ID, false), dErrors.CodeForbidden)
	// Non-owner gets forbidden even when status alone would allow it.
	wantCode(t, CanEditRecord(stranger, owner.ID, true), dErrors.CodeForbidden)
	// Admins cannot edit reporter content either.
	wantCode(t, CanEditRecord(admin, owner.ID, true), dErrors.CodeForbidden)
}

func TestCanUpdateStatus(t *testing.T) {
	if err := CanUpdateStatus(admin); err != nil {
		t.Fatalf("admin status update should be permitted: %v", err)
	}
	wantCode(t, CanUpdateStatus(owner), dErrors.CodeForbidden)
}

func TestDeleteHasNoAdminOverride(t *testing.T) {
	if err := CanDeleteRecord(owner, owner.ID); err != nil {
		t.Fatalf("owner delete should be permitted: %v", err)
	}
	wantCode(t, CanDeleteRecord(admin, owner.ID), dErrors.CodeForbidden)
	wantCode(t, CanDeleteRecord(stranger, owner.ID), dErrors.CodeForbidden)

	if err := CanDeleteMedia(owner, owner.ID); err != nil {
		t.Fatalf("uploader delete should be permitted: %v", err)
	}
	wantCode(t, CanDeleteMedia(admin, owner.ID), dErrors.CodeForbidden)
}

func TestUserRules(t *testing.T) {
	if err := CanViewUser(owner, owner.ID); err != nil {
		t.Fatalf("self view should be permitted: %v", err)
	}
	if err := CanViewUser(admin, owner.ID); err != nil {
		t.Fatalf("admin view should be permitted: %v", err)
	}
	wantCode(t, CanViewUser(stranger, owner.ID), dErrors.CodeForbidden)

	if err := CanUpdateUser(owner, owner.ID); err != nil {
		t.Fatalf("self update should be permitted: %v", err)
	}
	wantCode(t, CanUpdateUser(admin, owner.ID), dErrors.CodeForbidden)

	if err := CanDeleteUser(owner, owner.ID); err != nil {
		t.Fatalf("self delete should be permitted: %v", err)
	}
	if err := CanDeleteUser(admin, owner.ID); err != nil {
		t.Fatalf("admin delete of any user should be permitted: %v", err)
	}
	wantCode(t, CanDeleteUser(stranger, owner.ID), dErrors.CodeForbidden)
}
