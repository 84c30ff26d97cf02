package service

import "errors"

var (
	// ErrValidation marks a rejected write caused by missing or invalid
	// required fields. Handlers map it to 400.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrEmptyAllotment indicates a dispatch was requested for an allotment
	// with no in-stock items.
	ErrEmptyAllotment = errors.New("allotment has no items in stock")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
