package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Notifier delivers fire-and-forget messages to users. A failed send never
// rolls back the state change that triggered it; callers log and move on.
type Notifier interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// SMTPNotifier sends plain-text mail through a single SMTP endpoint.
type SMTPNotifier struct {
	addr string // host:port
	from string
}

func NewSMTPNotifier(addr, from string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from}
}

func (n *SMTPNotifier) Send(_ context.Context, toEmail, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + toEmail,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", toEmail, err)
	}
	return nil
}

// LogNotifier is used when SMTP is not configured: it records the message to
// the server log instead of delivering it.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, toEmail, subject, _ string) error {
	log.Printf("notification (no SMTP configured) to=%s subject=%q", toEmail, subject)
	return nil
}

// FromConfig picks the SMTP notifier when an address is configured, the log
// notifier otherwise.
func FromConfig(smtpAddr, from string) Notifier {
	if smtpAddr == "" {
		return LogNotifier{}
	}
	return NewSMTPNotifier(smtpAddr, from)
}
