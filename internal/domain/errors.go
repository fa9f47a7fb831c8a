package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrNotFound           = errors.New("requested resource not found")

	// ErrInvalidResetLink covers every way a password reset link can be bad:
	// undecodable uid, unknown user, tampered, expired or already used token.
	ErrInvalidResetLink = errors.New("invalid or expired password reset link")
)
