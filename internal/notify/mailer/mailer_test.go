package mailer

import (
	"strings"
	"testing"

	"ireporter/internal/notify"
)

func TestRenderStatusChange(t *testing.T) {
	msg, err := Render(notify.Event{
		Kind:      notify.KindStatusChange,
		Recipient: "jane.doe@example.com",
		RecordID:  "rec-42",
		Status:    "resolved",
	}, "https://api.example.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.To != "jane.doe@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "rec-42") || !strings.Contains(msg.Subject, "resolved") {
		t.Fatalf("subject must name record and status: %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Hello Jane") {
		t.Fatalf("greeting should use the derived name: %q", msg.Body)
	}
}

func TestRenderVerifyEmailIncludesLink(t *testing.T) {
	msg, err := Render(notify.Event{
		Kind:      notify.KindVerifyEmail,
		Recipient: "bob@example.com",
		Token:     "tok-123",
	}, "https://api.example.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg.Body, "https://api.example.com/auth/verify?token=tok-123") {
		t.Fatalf("body must carry the verification link: %q", msg.Body)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := Render(notify.Event{Kind: "telegram"}, ""); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
