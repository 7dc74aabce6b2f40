package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mentoroid/user-service/internal/models"
	"github.com/mentoroid/user-service/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Code lifetimes per ledger kind.
const (
	// RegistrationTTL bounds how long a registration code stays valid.
	RegistrationTTL = 10 * time.Minute
	// ResetTTL bounds how long a password-reset code stays valid.
	ResetTTL = 5 * time.Minute
)

// TTLFor returns the code lifetime for a ledger kind.
func TTLFor(kind string) time.Duration {
	if kind == models.OTPKindReset {
		return ResetTTL
	}
	return RegistrationTTL
}

// OTPLedger persists transient one-time codes. At most one non-expired
// entry exists per (kind, email): Issue is an atomic replace, so two
// concurrent issues for the same email cannot leave two live codes.
type OTPLedger struct {
	db *gorm.DB
}

// NewOTPLedger constructs an OTPLedger.
func NewOTPLedger(db *gorm.DB) *OTPLedger {
	return &OTPLedger{db: db}
}

// Issue replaces any pending entry for (kind, email) with a fresh random
// code and returns the code for delivery. payload may be nil for kinds
// that need no parked data.
func (l *OTPLedger) Issue(ctx context.Context, kind, email string, payload any) (string, error) {
	code, errCode := security.GenerateOTPCode()
	if errCode != nil {
		return "", fmt.Errorf("otp ledger: %w", errCode)
	}

	var payloadJSON datatypes.JSON
	if payload != nil {
		data, errMarshal := json.Marshal(payload)
		if errMarshal != nil {
			return "", fmt.Errorf("otp ledger: marshal payload: %w", errMarshal)
		}
		payloadJSON = datatypes.JSON(data)
	}

	now := time.Now().UTC()
	entry := models.PendingOTP{
		Kind:      kind,
		Email:     NormalizeEmail(email),
		Code:      code,
		Payload:   payloadJSON,
		ExpiresAt: now.Add(TTLFor(kind)),
		CreatedAt: now,
	}

	if errUpsert := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "payload", "expires_at", "created_at"}),
	}).Create(&entry).Error; errUpsert != nil {
		return "", fmt.Errorf("otp ledger: issue: %w", errUpsert)
	}
	return code, nil
}

// Consume validates the supplied code against the pending entry for
// (kind, email) and returns the entry on success. It does NOT delete the
// entry; the caller deletes once its follow-up mutation is durable, so a
// crash between the two steps cannot resurrect a half-used code.
func (l *OTPLedger) Consume(ctx context.Context, kind, email, suppliedCode string) (*models.PendingOTP, error) {
	entry, errFetch := l.fetch(ctx, kind, email)
	if errFetch != nil {
		return nil, errFetch
	}
	if entry.Code != suppliedCode {
		return nil, ErrMismatch
	}
	return entry, nil
}

// Peek returns the pending entry for (kind, email) without checking a code.
// Used by reset completion, which only requires that a verified request is
// still open and unexpired.
func (l *OTPLedger) Peek(ctx context.Context, kind, email string) (*models.PendingOTP, error) {
	return l.fetch(ctx, kind, email)
}

// fetch loads a live entry, reaping it opportunistically when expired.
func (l *OTPLedger) fetch(ctx context.Context, kind, email string) (*models.PendingOTP, error) {
	var entry models.PendingOTP
	errFind := l.db.WithContext(ctx).
		Where("kind = ? AND email = ?", kind, NormalizeEmail(email)).
		First(&entry).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("otp ledger: fetch: %w", errFind)
	}
	if entry.Expired(time.Now().UTC()) {
		if errDelete := l.Delete(ctx, kind, email); errDelete != nil {
			log.WithError(errDelete).Warn("otp ledger: reap expired entry failed")
		}
		return nil, ErrExpired
	}
	return &entry, nil
}

// Delete removes the pending entry for (kind, email), if any.
func (l *OTPLedger) Delete(ctx context.Context, kind, email string) error {
	errDelete := l.db.WithContext(ctx).
		Where("kind = ? AND email = ?", kind, NormalizeEmail(email)).
		Delete(&models.PendingOTP{}).Error
	if errDelete != nil {
		return fmt.Errorf("otp ledger: delete: %w", errDelete)
	}
	return nil
}

// SweepExpired hard-deletes every entry past its expiry and returns the
// number of rows removed.
func (l *OTPLedger) SweepExpired(ctx context.Context) (int64, error) {
	res := l.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.PendingOTP{})
	if res.Error != nil {
		return 0, fmt.Errorf("otp ledger: sweep: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StartSweeper runs a periodic sweep of expired entries until ctx is done.
func (l *OTPLedger) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, errSweep := l.SweepExpired(ctx)
				if errSweep != nil {
					log.WithError(errSweep).Error("otp sweeper failed")
					continue
				}
				if removed > 0 {
					log.WithField("removed", removed).Info("otp sweeper reaped expired codes")
				}
			}
		}
	}()
}
