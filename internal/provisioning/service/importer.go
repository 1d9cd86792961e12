package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

// ImportPlayer creates a roster entry, optionally pre-linked to an
// existing identity. When the role grant for a pre-linked identity
// fails, the created player is deleted; the identity itself existed
// before the import and is never touched.
func (s *Service) ImportPlayer(ctx context.Context, caller authn.Caller, req domain.ImportPlayerRequest) (*domain.ImportPlayerResult, error) {
	var player *rosterdomain.Player

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.StaffTier(caller.Role) {
					return domain.ErrForbidden
				}
				if strings.TrimSpace(req.FullName) == "" {
					return domain.ErrMissingFields
				}
				teams, err := s.players.FindTeams(ctx, []snowflake.ID{req.TeamID})
				if err != nil {
					return err
				}
				if len(teams) != 1 {
					return rosterdomain.ErrTeamNotFound
				}
				return nil
			},
		},
		{
			Name: "create_player",
			Run: func(ctx context.Context) error {
				candidate := &rosterdomain.Player{
					ID:           s.node.Generate(),
					TeamID:       req.TeamID,
					FullName:     strings.TrimSpace(req.FullName),
					JerseyNumber: req.JerseyNumber,
					IdentityID:   req.IdentityID,
				}
				if req.Email != nil {
					email := normalizeEmail(*req.Email)
					candidate.Email = &email
				}
				if err := s.players.Insert(ctx, candidate); err != nil {
					return err
				}
				player = candidate
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.players.Delete(ctx, player.ID)
			},
		},
		{
			Name: "grant_role",
			Run: func(ctx context.Context) error {
				if req.IdentityID == nil {
					return nil
				}
				return s.grants.Insert(ctx, &grantdomain.TeamRole{
					IdentityID: *req.IdentityID,
					TeamID:     req.TeamID,
					Role:       authn.RolePlayer,
				})
			},
		},
	}

	if err := s.run(ctx, workflowImportPlayer, steps); err != nil {
		return nil, err
	}

	s.log.Info("player imported",
		zap.Int64("player_id", int64(player.ID)),
		zap.Int64("team_id", int64(req.TeamID)),
		zap.Bool("linked", req.IdentityID != nil),
	)

	return &domain.ImportPlayerResult{Player: player}, nil
}
