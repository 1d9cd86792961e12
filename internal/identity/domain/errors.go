package domain

import "errors"

// Error strings are caller-facing; they surface verbatim in responses.
var (
	ErrNotFound          = errors.New("User not found")
	ErrDuplicateIdentity = errors.New("A user with this email address has already been registered")
	ErrInvalidCredential = errors.New("Password must be at least 6 characters long")
)
