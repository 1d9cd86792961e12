package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/courtside/rosterd/internal/grant/domain"
	"github.com/courtside/rosterd/pkg/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(gdb *gorm.DB) domain.Repository {
	return &repo{db: gdb}
}

func (r *repo) Insert(ctx context.Context, grant *domain.TeamRole) error {
	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(grant).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateGrant
	}
	return err
}

func (r *repo) Delete(ctx context.Context, identityID uuid.UUID, teamID snowflake.ID, role string) error {
	tx := r.db.WithContext(ctx).
		Where("identity_id = ? AND team_id = ? AND role = ?", identityID, teamID, role).
		Delete(&domain.TeamRole{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

func (r *repo) DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Delete(&domain.TeamRole{}).Error
}

func (r *repo) ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]domain.TeamRole, error) {
	var grants []domain.TeamRole
	err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("team_id, role").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
