package models

import "time"

// Boards accepted for a student profile.
const (
	BoardCBSE  = "CBSE"
	BoardICSE  = "ICSE"
	BoardState = "State Board"
	BoardOther = "Other"
)

// ValidBoard reports whether the board value is one of the accepted names.
func ValidBoard(board string) bool {
	switch board {
	case BoardCBSE, BoardICSE, BoardState, BoardOther:
		return true
	}
	return false
}

// Profile holds the mutable student profile attached one-to-one to a user.
// Created lazily on first write; updates merge only supplied fields.
type Profile struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;uniqueIndex"`        // Owning user.
	User   *User  `gorm:"foreignKey:UserID" json:"-"` // Owning user record.

	StudentWhatsapp string `gorm:"type:text;not null"` // Student contact number, required on create.
	ParentWhatsapp  string `gorm:"type:text"`          // Optional parent contact number.
	SchoolName      string `gorm:"type:text"`          // School name.
	Board           string `gorm:"type:text"`          // One of the Board* constants.
	Class           string `gorm:"type:text"`          // Class label.
	ProfileImage    string `gorm:"type:text"`          // Optional image reference.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
