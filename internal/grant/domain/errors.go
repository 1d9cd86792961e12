package domain

import "errors"

// Error strings are caller-facing; they surface verbatim in responses.
var (
	ErrDuplicateGrant = errors.New("Role already granted for this team")
	ErrGrantNotFound  = errors.New("Role grant not found")
)
