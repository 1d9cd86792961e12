package domain

import "errors"

// Error strings are caller-facing; they surface verbatim in responses.
var (
	ErrForbidden        = errors.New("Insufficient permissions")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrMissingFields    = errors.New("Missing required fields")
	ErrInvalidRole      = errors.New("Invalid role specified")
	ErrPlayerIDRequired = errors.New("Player ID is required for player invites")
	ErrPlayerTeamOnly   = errors.New("Player must be assigned to their team only")
)
