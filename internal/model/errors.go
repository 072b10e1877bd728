package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Job related errors
	ErrJobNotFound      = errors.New("job not found")
	ErrJobNotOpen       = errors.New("job is not accepting applications")
	ErrCategoryNotFound = errors.New("category not found")

	// Application related errors
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrInvalidTransition   = errors.New("invalid status transition")

	// Profile related errors
	ErrProfileNotFound = errors.New("profile not found")

	ErrNotificationNotFound = errors.New("notification not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
