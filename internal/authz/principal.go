// Package authz is the authorization core. Decisions are pure, synchronous
// functions over a Principal and the target resource's ownership facts; no
// store access happens here.
package authz

// Principal is the authenticated actor, resolved from the identity store on
// every request. It is a closed sum: Citizen or Admin. Code that branches on
// the principal kind should type-switch over both variants so new kinds fail
// to compile rather than silently fall through.
type Principal interface {
	// PublicID is the actor's opaque public identifier.
	PublicID() string
	sealed()
}

// Citizen is a regular reporting user.
type Citizen struct {
	ID string
}

func (c Citizen) PublicID() string { return c.ID }
func (Citizen) sealed()            {}

// Admin is an organization worker with moderation rights.
type Admin struct {
	ID       string
	WorkerID string
}

func (a Admin) PublicID() string { return a.ID }
func (Admin) sealed()            {}

// IsAdmin reports whether p is the Admin variant. Prefer type switches in
// rule code; this helper exists for logging and serialization.
func IsAdmin(p Principal) bool {
	_, ok := p.(Admin)
	return ok
}
