package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/courtside/rosterd/internal/roster/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *repo) Insert(ctx context.Context, player *domain.Player) error {
	now := time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = now
	}
	player.UpdatedAt = now
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *repo) Link(ctx context.Context, id snowflake.ID, identityID uuid.UUID, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	tx := r.db.WithContext(ctx).
		Model(&domain.Player{}).
		Where("id = ? AND identity_id IS NULL", id).
		Updates(map[string]any{
			"identity_id": identityID,
			"email":       normalized,
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var player domain.Player
		err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPlayerNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrAlreadyLinked
	}
	return nil
}

func (r *repo) Unlink(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Player{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"identity_id": nil,
			"email":       nil,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Player{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (r *repo) FindTeams(ctx context.Context, ids []snowflake.ID) ([]domain.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teams []domain.Team
	if err := r.db.WithContext(ctx).Find(&teams, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return teams, nil
}
