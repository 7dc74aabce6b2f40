package models

import "time"

// User represents a verified end-user account stored in the database.
// Rows are created only by the OTP verification step, so every persisted
// user has proven control of their email address.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name         string `gorm:"type:text;not null"`             // Display name.
	Email        string `gorm:"type:text;not null;uniqueIndex"` // Normalized (lowercase, trimmed) email.
	PasswordHash string `gorm:"type:text;not null" json:"-"`    // bcrypt hash, never serialized.

	IsVerified bool   `gorm:"not null;default:false"`            // Email ownership proven.
	Role       string `gorm:"type:text;not null;default:'user'"` // Pass-through role string.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
