package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"ireporter/internal/notify"
	"ireporter/internal/platform/config"
)

// SMTP sends rendered events over plain SMTP with optional AUTH.
type SMTP struct {
	addr    string
	from    string
	auth    smtp.Auth
	baseURL string
}

func NewSMTP(cfg config.SMTPConfig, baseURL string) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	s := &SMTP{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:    cfg.From,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s, nil
}

func (s *SMTP) Send(_ context.Context, event notify.Event) error {
	msg, err := Render(event, s.baseURL)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
