package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Domain failures surfaced by the stores. The HTTP layer maps these to
// response codes; messages sent to clients never include driver details.
var (
	// ErrNotFound indicates no matching user, profile, message, or ledger entry.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict indicates a uniqueness violation, e.g. a duplicate email.
	ErrConflict = errors.New("store: conflict")
	// ErrExpired indicates a ledger entry past its expiry instant.
	ErrExpired = errors.New("store: expired")
	// ErrMismatch indicates a supplied code that does not match the stored one.
	ErrMismatch = errors.New("store: code mismatch")
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint breaks.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether the error is a unique index violation
// on either supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// glebarez/sqlite reports constraint failures as plain text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
