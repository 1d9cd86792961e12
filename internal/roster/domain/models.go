package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Team struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Player is a roster member. IdentityID is set if and only if a login
// identity has been created for or linked to the player; the matching
// team-role grant is maintained by the provisioning workflows, never
// independently.
type Player struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	TeamID       snowflake.ID `gorm:"not null;index" json:"team_id"`
	FullName     string       `gorm:"not null" json:"full_name"`
	JerseyNumber *int         `json:"jersey_number,omitempty"`
	IdentityID   *uuid.UUID   `gorm:"type:uuid;uniqueIndex" json:"identity_id,omitempty"`
	Email        *string      `json:"email,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Linked reports whether the player already owns a login identity.
func (p Player) Linked() bool {
	return p.IdentityID != nil
}
