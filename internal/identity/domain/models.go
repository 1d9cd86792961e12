package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Identity is one login credential set held by the identity provider.
// Email is stored lowercased; lookups are case-insensitive.
type Identity struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string            `gorm:"uniqueIndex;not null" json:"email"`
	Confirmed    bool              `gorm:"not null;default:false" json:"confirmed"`
	PasswordHash *string           `json:"-"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ActionToken backs a single-use invite or recovery link.
type ActionToken struct {
	Token      string    `gorm:"primaryKey" json:"token"`
	Email      string    `gorm:"not null;index" json:"email"`
	Kind       string    `gorm:"not null" json:"kind"`
	RedirectTo string    `json:"redirect_to"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
