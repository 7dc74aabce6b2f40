package mailer

import (
	"context"
	"testing"

	"github.com/mentoroid/user-service/internal/config"
)

func TestSendRespectsContextWhenSlotsExhausted(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", User: "svc", From: "svc@example.com"})
	// Occupy every slot so the next send must wait.
	for i := 0; i < maxConcurrentSends; i++ {
		m.slots <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if errSend := m.send(ctx, "to@example.com", "subject", "body"); errSend == nil {
		t.Fatal("want error when context is cancelled before a slot frees")
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	m := LogMailer{}
	ctx := context.Background()
	if errSend := m.SendRegistrationOTP(ctx, "to@example.com", "Asha", "123456"); errSend != nil {
		t.Fatalf("registration: %v", errSend)
	}
	if errSend := m.SendPasswordResetOTP(ctx, "to@example.com", "123456"); errSend != nil {
		t.Fatalf("reset: %v", errSend)
	}
	if errSend := m.SendWelcome(ctx, "to@example.com", "Asha"); errSend != nil {
		t.Fatalf("welcome: %v", errSend)
	}
}
