package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentoroid/user-service/internal/models"
)

func TestLedgerIssueReplacesPending(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	first, errFirst := ledger.Issue(ctx, models.OTPKindRegister, "asha@example.com", models.RegistrationPayload{Name: "Asha", PasswordHash: "h1"})
	if errFirst != nil {
		t.Fatalf("first issue: %v", errFirst)
	}
	second, errSecond := ledger.Issue(ctx, models.OTPKindRegister, "asha@example.com", models.RegistrationPayload{Name: "Asha", PasswordHash: "h2"})
	if errSecond != nil {
		t.Fatalf("second issue: %v", errSecond)
	}

	var count int64
	if errCount := conn.Model(&models.PendingOTP{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("want exactly one pending entry, got %d", count)
	}

	// Only the latest code is live.
	if first != second {
		if _, errStale := ledger.Consume(ctx, models.OTPKindRegister, "asha@example.com", first); !errors.Is(errStale, ErrMismatch) {
			t.Fatalf("stale code: want ErrMismatch, got %v", errStale)
		}
	}
	entry, errConsume := ledger.Consume(ctx, models.OTPKindRegister, "asha@example.com", second)
	if errConsume != nil {
		t.Fatalf("consume: %v", errConsume)
	}
	payload, errPayload := entry.RegistrationPayload()
	if errPayload != nil {
		t.Fatalf("payload: %v", errPayload)
	}
	if payload.PasswordHash != "h2" {
		t.Fatalf("payload not replaced: %q", payload.PasswordHash)
	}
}

func TestLedgerKindsAreIndependent(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	if _, errIssue := ledger.Issue(ctx, models.OTPKindRegister, "both@example.com", models.RegistrationPayload{Name: "B", PasswordHash: "h"}); errIssue != nil {
		t.Fatalf("issue register: %v", errIssue)
	}
	if _, errIssue := ledger.Issue(ctx, models.OTPKindReset, "both@example.com", nil); errIssue != nil {
		t.Fatalf("issue reset: %v", errIssue)
	}

	var count int64
	conn.Model(&models.PendingOTP{}).Count(&count)
	if count != 2 {
		t.Fatalf("want one entry per kind, got %d", count)
	}
}

func TestLedgerConsumeDoesNotDelete(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	code, errIssue := ledger.Issue(ctx, models.OTPKindReset, "keep@example.com", nil)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if _, errConsume := ledger.Consume(ctx, models.OTPKindReset, "keep@example.com", code); errConsume != nil {
		t.Fatalf("consume: %v", errConsume)
	}
	// Entry survives until the caller deletes it explicitly.
	if _, errPeek := ledger.Peek(ctx, models.OTPKindReset, "keep@example.com"); errPeek != nil {
		t.Fatalf("peek after consume: %v", errPeek)
	}
	if errDelete := ledger.Delete(ctx, models.OTPKindReset, "keep@example.com"); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if _, errGone := ledger.Peek(ctx, models.OTPKindReset, "keep@example.com"); !errors.Is(errGone, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", errGone)
	}
}

func TestLedgerConsumeFailures(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	if _, errMissing := ledger.Consume(ctx, models.OTPKindRegister, "nobody@example.com", "123456"); !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", errMissing)
	}

	if _, errIssue := ledger.Issue(ctx, models.OTPKindRegister, "asha@example.com", models.RegistrationPayload{Name: "A", PasswordHash: "h"}); errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if _, errWrong := ledger.Consume(ctx, models.OTPKindRegister, "asha@example.com", "000000"); !errors.Is(errWrong, ErrMismatch) {
		t.Fatalf("want ErrMismatch, got %v", errWrong)
	}
}

func TestLedgerExpiredEntryIsReaped(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	code, errIssue := ledger.Issue(ctx, models.OTPKindReset, "late@example.com", nil)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	errExpire := conn.Model(&models.PendingOTP{}).
		Where("email = ?", "late@example.com").
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error
	if errExpire != nil {
		t.Fatalf("backdate: %v", errExpire)
	}

	if _, errConsume := ledger.Consume(ctx, models.OTPKindReset, "late@example.com", code); !errors.Is(errConsume, ErrExpired) {
		t.Fatalf("want ErrExpired, got %v", errConsume)
	}
	// The expired row was reaped on access.
	var count int64
	conn.Model(&models.PendingOTP{}).Where("email = ?", "late@example.com").Count(&count)
	if count != 0 {
		t.Fatalf("expired entry not reaped, %d rows remain", count)
	}
}

func TestLedgerSweepExpired(t *testing.T) {
	conn := openTestDB(t)
	ledger := NewOTPLedger(conn)
	ctx := context.Background()

	if _, errIssue := ledger.Issue(ctx, models.OTPKindReset, "fresh@example.com", nil); errIssue != nil {
		t.Fatalf("issue fresh: %v", errIssue)
	}
	if _, errIssue := ledger.Issue(ctx, models.OTPKindReset, "stale@example.com", nil); errIssue != nil {
		t.Fatalf("issue stale: %v", errIssue)
	}
	conn.Model(&models.PendingOTP{}).
		Where("email = ?", "stale@example.com").
		Update("expires_at", time.Now().UTC().Add(-time.Second))

	removed, errSweep := ledger.SweepExpired(ctx)
	if errSweep != nil {
		t.Fatalf("sweep: %v", errSweep)
	}
	if removed != 1 {
		t.Fatalf("want 1 removed, got %d", removed)
	}
	if _, errPeek := ledger.Peek(ctx, models.OTPKindReset, "fresh@example.com"); errPeek != nil {
		t.Fatalf("fresh entry should survive sweep: %v", errPeek)
	}
}
