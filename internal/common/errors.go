// Package common defines sentinel errors and shared constants used across the
// authentication server and the operator CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorDuplicateEmail = errors.New("email already registered")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthenticated    = errors.New("unauthenticated")
	ErrorValidation         = errors.New("validation error")

	// Token errors. Malformed, badly signed, subject-less and expired tokens
	// all collapse into ErrInvalidToken.
	ErrInvalidToken = errors.New("invalid token")
)
