// internal/infra/email/smtp.go
package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPMailer implements delivery.Mailer over plain SMTP: one message per
// call, synchronous, no retry. A transport failure surfaces to the dispatch
// listener and from there to the publisher.
type SMTPMailer struct {
	addr string // host:port of the SMTP server
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds a mailer for the given server. With an empty
// username, the client sends without authenticating (local relay setups).
func NewSMTPMailer(addr, from, username, password string) (*SMTPMailer, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP address %q: %w", addr, err)
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{addr: addr, from: from, auth: auth}, nil
}

// Send delivers one plain-text message. smtp.SendMail has no context
// support, so cancellation only takes effect between sends.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
