package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// TeamRole grants one role to one identity on one team. The triple is
// unique; an identity may hold grants across any number of teams.
type TeamRole struct {
	IdentityID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"identity_id"`
	TeamID     snowflake.ID `gorm:"primaryKey" json:"team_id"`
	Role       string       `gorm:"primaryKey" json:"role"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Repository interface {
	Insert(ctx context.Context, grant *TeamRole) error
	// Delete removes exactly the (identity, team, role) triple. Grants
	// held by the same identity on other teams or under other roles are
	// untouched.
	Delete(ctx context.Context, identityID uuid.UUID, teamID snowflake.ID, role string) error
	// DeleteByIdentity removes every grant held by the identity, across
	// all teams and roles.
	DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error
	ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]TeamRole, error)
}
