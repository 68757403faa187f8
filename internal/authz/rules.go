package authz

import (
	dErrors "ireporter/pkg/domain-errors"
)

// Every rule follows the same shape: a nil principal fails with unauthorized
// before any ownership fact is consulted; an authenticated but unentitled
// principal fails with forbidden. Callers resolve NotFound before invoking a
// rule, so the uniform error ordering is NotFound, then Forbidden.

var errUnauthenticated = dErrors.New(dErrors.CodeUnauthorized, "authentication required")

// CanReadRecord permits the record owner and admins.
func CanReadRecord(p Principal, ownerID string) error {
	switch p := p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		return nil
	case Citizen:
		if p.ID == ownerID {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "not the record owner")
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

// CanListAll permits admins to read cross-owner listings.
func CanListAll(p Principal) error {
	switch p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		return nil
	case Citizen:
		return dErrors.New(dErrors.CodeForbidden, "admin access required")
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

// CanEditRecord permits the owner to change title/description/location, and
// only while the record is still in its initial status. The failure is
// forbidden in both cases: a non-owner and an owner of a progressed record
// get the same class of refusal.
func CanEditRecord(p Principal, ownerID string, statusIsInitial bool) error {
	switch p := p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		// Admins move records through statuses but do not rewrite the
		// reporter's account of events.
		return dErrors.New(dErrors.CodeForbidden, "only the record owner may edit")
	case Citizen:
		if p.ID != ownerID {
			return dErrors.New(dErrors.CodeForbidden, "not the record owner")
		}
		if !statusIsInitial {
			return dErrors.New(dErrors.CodeForbidden, "record is no longer editable")
		}
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

// CanUpdateStatus permits admins only; owners can never change status.
func CanUpdateStatus(p Principal) error {
	switch p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		return nil
	case Citizen:
		return dErrors.New(dErrors.CodeForbidden, "only administrators may change status")
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

// CanDeleteRecord permits the owner only. Admins have no delete override; see
// DESIGN.md for the product decision.
func CanDeleteRecord(p Principal, ownerID string) error {
	return ownerOnly(p, ownerID, "not the record owner")
}

// CanDeleteMedia permits the uploading user only.
func CanDeleteMedia(p Principal, uploaderID string) error {
	return ownerOnly(p, uploaderID, "not the uploader")
}

// CanAttachMedia permits the record owner to add images/videos to a record.
func CanAttachMedia(p Principal, recordOwnerID string) error {
	return ownerOnly(p, recordOwnerID, "not the record owner")
}

// CanViewUser permits self-service reads plus admin reads.
func CanViewUser(p Principal, targetID string) error {
	switch p := p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		return nil
	case Citizen:
		if p.ID == targetID {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "cannot view another user")
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

// CanUpdateUser permits self-service only, admins included: an admin edits
// their own profile like anyone else but not other users'.
func CanUpdateUser(p Principal, targetID string) error {
	if p == nil {
		return errUnauthenticated
	}
	if p.PublicID() == targetID {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "cannot update another user")
}

// CanDeleteUser permits self-deletion and admin deletion of any account.
func CanDeleteUser(p Principal, targetID string) error {
	switch p := p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		return nil
	case Citizen:
		if p.ID == targetID {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, "cannot delete another user")
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}

func ownerOnly(p Principal, ownerID, reason string) error {
	switch p := p.(type) {
	case nil:
		return errUnauthenticated
	case Admin:
		if p.ID == ownerID {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, reason)
	case Citizen:
		if p.ID == ownerID {
			return nil
		}
		return dErrors.New(dErrors.CodeForbidden, reason)
	}
	return dErrors.New(dErrors.CodeForbidden, "unknown principal")
}
