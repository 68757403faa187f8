// Package sentinel holds infrastructure-level sentinel errors. Stores return
// these (optionally wrapped) so services can translate them into domain
// errors without importing store packages.
//
// They represent factual states about resources, not validation failures:
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: a unique constraint (email, worker id) was violated
//   - ErrExpired: a token has passed its expiry
//   - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
package sentinel

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
