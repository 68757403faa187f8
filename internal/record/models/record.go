package models

import "time"

// Type distinguishes corruption reports from calls for government action.
type Type string

const (
	TypeRedFlag      Type = "red-flag"
	TypeIntervention Type = "intervention"
)

func (t Type) IsValid() bool {
	return t == TypeRedFlag || t == TypeIntervention
}

// Record is a citizen report. PublicID, OwnerID, Type and CreatedAt are
// fixed at creation; Status changes only through the admin status operation.
type Record struct {
	PublicID    string    `json:"public_id"`
	OwnerID     string    `json:"owner_id"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
