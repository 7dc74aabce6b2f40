package auth

import "errors"

// Domain failures raised by the auth engine. Store-level sentinels
// (store.ErrNotFound, store.ErrExpired, store.ErrMismatch) propagate
// through unchanged.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("auth: validation failed")
	// ErrEmailTaken indicates registration against an already-registered email.
	// Registration deliberately confirms the address exists; login never does.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidCredential indicates a failed login. One error for both the
	// unknown-email and wrong-password cases so responses cannot be used to
	// probe which addresses hold accounts.
	ErrInvalidCredential = errors.New("auth: invalid email or password")
)
