package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courtside/rosterd/internal/invite/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Upsert(ctx context.Context, invite *domain.PendingInvite) error {
	invite.Email = strings.ToLower(strings.TrimSpace(invite.Email))
	now := time.Now().UTC()
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = now
	}
	invite.UpdatedAt = now
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "role", "team_ids", "player_id", "status", "created_by", "updated_at",
			}),
		}).
		Create(invite).Error
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.PendingInvite, error) {
	var invite domain.PendingInvite
	err := r.db.WithContext(ctx).
		First(&invite, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repo) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.PendingInvite{}, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
}
