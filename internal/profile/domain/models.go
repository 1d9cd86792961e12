package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile stores the application-level role and display name attached to
// an identity. The caller role check reads from here.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `gorm:"not null" json:"role"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
