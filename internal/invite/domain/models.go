package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
)

// PendingInvite records an outstanding invitation keyed by email. A
// repeat invite for the same address replaces the previous record
// rather than accumulating duplicates.
type PendingInvite struct {
	Email       string                      `gorm:"primaryKey" json:"email"`
	DisplayName string                      `gorm:"not null" json:"display_name"`
	Role        string                      `gorm:"not null" json:"role"`
	TeamIDs     datatypes.JSONSlice[string] `json:"team_ids"`
	PlayerID    *string                     `json:"player_id,omitempty"`
	Status      string                      `gorm:"not null;default:pending" json:"status"`
	CreatedBy   uuid.UUID                   `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

type Repository interface {
	// Upsert inserts the invite, replacing any existing record for the
	// same email in full.
	Upsert(ctx context.Context, invite *PendingInvite) error
	FindByEmail(ctx context.Context, email string) (*PendingInvite, error)
	Delete(ctx context.Context, email string) error
}
