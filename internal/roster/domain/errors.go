package domain

import "errors"

// Error strings are caller-facing; they surface verbatim in responses.
var (
	ErrPlayerNotFound = errors.New("Player not found")
	ErrAlreadyLinked  = errors.New("This player already has an associated account")
	ErrTeamNotFound   = errors.New("One or more team IDs are invalid")
)
