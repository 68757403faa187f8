// Package mailer renders notification events into email and sends them.
package mailer

import (
	"context"
	"fmt"

	"ireporter/internal/notify"
	"ireporter/pkg/email"
)

// Mailer sends one rendered notification.
type Mailer interface {
	Send(ctx context.Context, event notify.Event) error
}

// Message is a rendered mail ready for transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Render turns an event into a mail message. baseURL is the public API
// address embedded in verification and reset links.
func Render(event notify.Event, baseURL string) (Message, error) {
	first, _ := email.DeriveNameFromEmail(event.Recipient)

	switch event.Kind {
	case notify.KindStatusChange:
		return Message{
			To:      event.Recipient,
			Subject: fmt.Sprintf("Your report %s is now %s", event.RecordID, event.Status),
			Body: fmt.Sprintf(
				"Hello %s,\n\nThe status of your report %s has changed to %q.\n\nThank you for speaking up.\n",
				first, event.RecordID, event.Status,
			),
		}, nil
	case notify.KindVerifyEmail:
		return Message{
			To:      event.Recipient,
			Subject: "Verify your email address",
			Body: fmt.Sprintf(
				"Hello %s,\n\nPlease confirm your email address:\n\n%s/auth/verify?token=%s\n\nThe link expires in 24 hours.\n",
				first, baseURL, event.Token,
			),
		}, nil
	case notify.KindResetPassword:
		return Message{
			To:      event.Recipient,
			Subject: "Reset your password",
			Body: fmt.Sprintf(
				"Hello %s,\n\nUse this token to set a new password:\n\n%s\n\nThe token expires in 1 hour. If you did not request a reset, ignore this mail.\n",
				first, event.Token,
			),
		}, nil
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", event.Kind)
	}
}
