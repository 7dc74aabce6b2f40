// Package mailer delivers account emails over SMTP. Template rendering is
// deliberately plain; the service treats message bodies as opaque payloads.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mentoroid/user-service/internal/config"
	log "github.com/sirupsen/logrus"
)

// Mailer is the outbound-mail collaborator used by the auth engine.
type Mailer interface {
	// SendRegistrationOTP delivers a signup verification code.
	SendRegistrationOTP(ctx context.Context, to, name, code string) error
	// SendPasswordResetOTP delivers a password-reset code.
	SendPasswordResetOTP(ctx context.Context, to, code string) error
	// SendWelcome delivers the post-verification welcome message.
	SendWelcome(ctx context.Context, to, name string) error
}

// maxConcurrentSends bounds simultaneous SMTP connections.
const maxConcurrentSends = 5

// SMTPMailer sends mail through a plain SMTP server, limiting concurrent
// outbound connections with a slot pool.
type SMTPMailer struct {
	cfg   config.SMTPConfig
	slots chan struct{}
}

// NewSMTPMailer constructs an SMTPMailer from config.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:   cfg,
		slots: make(chan struct{}, maxConcurrentSends),
	}
}

// SendRegistrationOTP delivers a signup verification code.
func (m *SMTPMailer) SendRegistrationOTP(ctx context.Context, to, name, code string) error {
	subject := "Your OTP for Verification - Mentoroid"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Thanks for signing up! Use the OTP below to verify your email.\n\n"+
			"Verification Code: %s\n\n"+
			"This OTP is valid for 10 minutes only. If you didn't request this, please ignore this email.\n\n"+
			"The Mentoroid Team",
		name, code)
	return m.send(ctx, to, subject, body)
}

// SendPasswordResetOTP delivers a password-reset code.
func (m *SMTPMailer) SendPasswordResetOTP(ctx context.Context, to, code string) error {
	subject := "Your OTP to Reset Password - Mentoroid"
	body := fmt.Sprintf(
		"We received a request to reset your Mentoroid account password.\n\n"+
			"One-Time Password: %s\n\n"+
			"This OTP is valid for 5 minutes. If you did not request this password reset, "+
			"please ignore this email.\n\n"+
			"The Mentoroid Team",
		code)
	return m.send(ctx, to, subject, body)
}

// SendWelcome delivers the post-verification welcome message.
func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to Mentoroid!"
	body := fmt.Sprintf(
		"Welcome %s!\n\n"+
			"Your account has been successfully verified. You can now start using Mentoroid.\n\n"+
			"The Mentoroid Team",
		name)
	return m.send(ctx, to, subject, body)
}

// send acquires a connection slot and performs the SMTP delivery.
// Headers use CRLF line endings per RFC 822.
func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	select {
	case m.slots <- struct{}{}:
		defer func() { <-m.slots }()
	case <-ctx.Done():
		return fmt.Errorf("mailer: acquire send slot: %w", ctx.Err())
	}

	from := m.cfg.From
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}
	message := strings.Join(headers, "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if errSend := smtp.SendMail(m.cfg.Addr(), auth, from, []string{to}, []byte(message)); errSend != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, errSend)
	}
	return nil
}

// LogMailer is the development fallback when SMTP is not configured: it
// logs codes instead of sending them. Never used in production.
type LogMailer struct{}

// SendRegistrationOTP logs a signup code.
func (LogMailer) SendRegistrationOTP(_ context.Context, to, _, code string) error {
	log.WithFields(log.Fields{"to": to, "code": code}).Info("registration otp (smtp not configured)")
	return nil
}

// SendPasswordResetOTP logs a reset code.
func (LogMailer) SendPasswordResetOTP(_ context.Context, to, code string) error {
	log.WithFields(log.Fields{"to": to, "code": code}).Info("password reset otp (smtp not configured)")
	return nil
}

// SendWelcome logs the welcome delivery.
func (LogMailer) SendWelcome(_ context.Context, to, _ string) error {
	log.WithField("to", to).Info("welcome mail (smtp not configured)")
	return nil
}
