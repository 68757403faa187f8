package models

import (
	"time"

	"ireporter/internal/authz"
)

// User is the persisted identity. PasswordHash never leaves the service
// layer; API responses use Redacted.
type User struct {
	PublicID     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	// WorkerID is set iff IsAdmin; empty for citizens.
	WorkerID  string
	Verified  bool
	CreatedAt time.Time
}

// Principal returns the authorization variant for this user.
func (u *User) Principal() authz.Principal {
	if u.IsAdmin {
		return authz.Admin{ID: u.PublicID, WorkerID: u.WorkerID}
	}
	return authz.Citizen{ID: u.PublicID}
}

// RedactedUser is the API representation, without credentials.
type RedactedUser struct {
	PublicID  string    `json:"public_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	WorkerID  string    `json:"worker_id,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Redacted strips credential material for transport.
func (u *User) Redacted() RedactedUser {
	return RedactedUser{
		PublicID:  u.PublicID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		WorkerID:  u.WorkerID,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
