package domain

import "errors"

var (
	// ErrNotAuthenticated means no session is stored locally.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionCorrupt means the stored session could not be parsed and was purged.
	ErrSessionCorrupt = errors.New("stored session is corrupt")
	// ErrForbidden means the session's role is not allowed for the operation.
	ErrForbidden = errors.New("access forbidden")

	ErrNotFound          = errors.New("record not found")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrEmailTaken        = errors.New("email already registered")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrAlreadyVerified   = errors.New("email already verified")
	ErrBadVerifyCode     = errors.New("invalid verification code")
	ErrVerifyCodeExpired = errors.New("verification code has expired")
)
