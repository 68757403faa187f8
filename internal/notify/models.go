// Package notify models the outbound email pipeline. Services append Events
// to an outbox store; a worker publishes them to Kafka; a consumer renders
// and sends the mail. Delivery is fire-and-forget relative to the write that
// produced the event.
package notify

import "time"

// Kind discriminates the email template an event renders into.
type Kind string

const (
	KindStatusChange  Kind = "status_change"
	KindVerifyEmail   Kind = "verify_email"
	KindResetPassword Kind = "reset_password"
)

// Event is one pending notification. RecordID and Status are set for
// status-change events; Token for verification and reset events.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Recipient string    `json:"recipient"`
	RecordID  string    `json:"record_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
