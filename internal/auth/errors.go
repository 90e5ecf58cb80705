package auth

import "errors"

var (
	// ErrMissingToken means no bearer credential was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken covers every verification failure: malformed, bad
	// signature, expired or missing identity.
	ErrInvalidToken = errors.New("invalid or expired token")
)
