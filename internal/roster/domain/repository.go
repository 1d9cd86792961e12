package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Player, error)
	Insert(ctx context.Context, player *Player) error
	// Link sets the identity link and normalized email. Fails with
	// ErrAlreadyLinked when the player already carries a link; an
	// existing link is never silently overwritten.
	Link(ctx context.Context, id snowflake.ID, identityID uuid.UUID, email string) error
	// Unlink clears both link fields. Used as compensation.
	Unlink(ctx context.Context, id snowflake.ID) error
	Delete(ctx context.Context, id snowflake.ID) error

	// FindTeams returns the subset of teams that exist for the given ids.
	FindTeams(ctx context.Context, ids []snowflake.ID) ([]Team, error)
}
