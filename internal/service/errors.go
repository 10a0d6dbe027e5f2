package service

import "errors"

// Sentinel errors surfaced to the web layer as user-facing flashes.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a login response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameTaken        = errors.New("username already taken")
	ErrCredentialsRequired  = errors.New("username and password are required")
	ErrTitleRequired        = errors.New("task title is required")
	ErrInvalidDeadline      = errors.New("deadline must be a YYYY-MM-DD date")
	ErrCategoryNameRequired = errors.New("category name is required")
)
