package domain

import "errors"

// Token errors.
var (
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenSuperseded = errors.New("token superseded by a newer login")
	ErrIdentityMissing = errors.New("token missing identity claims")
)

// Directory errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is not active")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrEmailMismatch      = errors.New("email and confirmation do not match")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Ledger and gateway errors.
var (
	ErrCreditNotFound      = errors.New("credit record not found")
	ErrInsufficientCredits = errors.New("not enough credits")
	ErrForbidden           = errors.New("access forbidden")
	ErrGenerationFailed    = errors.New("generation engine failed")
	ErrStorageCommit       = errors.New("storage commit failed")
)
