package application

import (
	"errors"

	"github.com/davryn/identity-service/internal/domain/repository"
)

var (
	// ErrInvalidInput covers malformed email or password rejected
	// before any I/O.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned uniformly for unknown email
	// and wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	// ErrEmailTaken indicates a profile update targeting an email that
	// belongs to a different user.
	ErrEmailTaken = errors.New("email already taken")
	// ErrEventDispatchFailed indicates the user was persisted but the
	// registration event could not be published.
	ErrEventDispatchFailed = errors.New("event dispatch failed")
	// ErrResetTokenInvalid covers unknown, expired, and replayed reset
	// or confirmation tokens.
	ErrResetTokenInvalid = errors.New("token invalid or expired")
)

// Storage sentinels surfaced unchanged to callers.
var (
	ErrDuplicateEmail        = repository.ErrDuplicateEmail
	ErrHardDeleteUnsupported = repository.ErrHardDeleteUnsupported
)
