package session

import "errors"

var (
	// ErrInvalidInput indicates a malformed email or code.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrInvalidCode indicates a wrong, expired, or already-used code.
	ErrInvalidCode = errors.New("invalid or expired login code")
	// ErrUnauthenticated indicates a missing or unknown session token.
	ErrUnauthenticated = errors.New("unauthenticated")
)
