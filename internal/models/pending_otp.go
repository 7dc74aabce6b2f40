package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// OTP kinds supported by the ledger.
const (
	// OTPKindRegister marks a pending registration awaiting email verification.
	OTPKindRegister = "register"
	// OTPKindReset marks a pending password reset.
	OTPKindReset = "reset"
)

// RegistrationPayload is the data parked in the ledger until the
// registration OTP is verified and the account can be created.
type RegistrationPayload struct {
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

// PendingOTP is a transient ledger entry binding an email to a one-time
// code. The unique (kind, email) index enforces at most one pending entry
// per email and kind; issuing replaces any previous entry atomically.
type PendingOTP struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Kind  string `gorm:"type:text;not null;uniqueIndex:idx_pending_otps_kind_email"` // register or reset.
	Email string `gorm:"type:text;not null;uniqueIndex:idx_pending_otps_kind_email"` // Normalized email.

	Code    string         `gorm:"type:text;not null"` // 6-digit decimal code.
	Payload datatypes.JSON `gorm:"type:jsonb"`         // Kind-specific payload; empty for resets.

	ExpiresAt time.Time `gorm:"not null;index"`          // Entry is invalid at or after this instant.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// Expired reports whether the entry is past its expiry at the given instant.
func (p *PendingOTP) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// RegistrationPayload decodes the registration payload of a register-kind entry.
func (p *PendingOTP) RegistrationPayload() (RegistrationPayload, error) {
	var payload RegistrationPayload
	if p.Kind != OTPKindRegister {
		return payload, fmt.Errorf("pending otp: no registration payload for kind %s", p.Kind)
	}
	if errUnmarshal := json.Unmarshal(p.Payload, &payload); errUnmarshal != nil {
		return payload, fmt.Errorf("pending otp: decode payload: %w", errUnmarshal)
	}
	return payload, nil
}
