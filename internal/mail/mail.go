// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package mail implements the outbound email collaborator.

The auth service hands it a decrypted recipient address and a verification
link; delivery is fire-and-forget. A delivery failure is logged here and is
never surfaced to the registering caller; registration has already returned
success by the time the send is attempted.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers transactional email on behalf of the auth service.
type Sender interface {
	// SendVerification delivers the email-verification link to the recipient.
	//
	// # Parameters
	//   - context: context.Context
	//   - recipient: Plaintext address (post-decryption).
	//   - link: Fully-qualified verification URL embedding the token.
	SendVerification(context context.Context, recipient, link string) error
}

// # SMTP Sender

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender constructs an [SMTPSender] from relay coordinates.
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) (*SMTPSender, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create SMTP client: %w", err)
	}

	return &SMTPSender{client: client, from: from, logger: logger}, nil
}

// SendVerification delivers the verification email.
func (sender *SMTPSender) SendVerification(context context.Context, recipient, link string) error {
	message := gomail.NewMsg()

	if err := message.From(sender.from); err != nil {
		return fmt.Errorf("mail: invalid sender address: %w", err)
	}
	if err := message.To(recipient); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}

	message.Subject("Email Verification for Tabletop Tracker")
	message.SetBodyString(gomail.TypeTextHTML,
		fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email.</p>`, link))

	if err := sender.client.DialAndSendWithContext(context, message); err != nil {
		return fmt.Errorf("mail: failed to send verification email: %w", err)
	}

	return nil
}

// # Development Sender

// LogSender is a no-delivery [Sender] used in development environments
// without an SMTP relay: it logs the link instead of sending it.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendVerification logs the verification link. The recipient address is NOT
// logged, it is PII.
func (sender *LogSender) SendVerification(context context.Context, recipient, link string) error {
	sender.logger.InfoContext(context, "verification_email_skipped",
		slog.String("link", link),
	)
	return nil
}
