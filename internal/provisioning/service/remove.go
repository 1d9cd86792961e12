package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

// RemovePlayer deletes the roster entry and, when linked, the login
// itself together with every grant and the profile row. Identity
// cleanup is best effort: a failure there is logged but never blocks
// removing the player.
func (s *Service) RemovePlayer(ctx context.Context, caller authn.Caller, req domain.RemovePlayerRequest) (*domain.RemovePlayerResult, error) {
	var (
		player          *rosterdomain.Player
		identityRemoved bool
	)

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.StaffTier(caller.Role) {
					return domain.ErrForbidden
				}
				found, err := s.players.FindByID(ctx, req.PlayerID)
				if err != nil {
					return err
				}
				player = found
				return nil
			},
		},
		{
			Name: "remove_identity",
			Run: func(ctx context.Context) error {
				if !player.Linked() {
					return nil
				}
				identityID := *player.IdentityID
				if err := s.grants.DeleteByIdentity(ctx, identityID); err != nil {
					s.log.Warn("failed to delete role grants",
						zap.String("identity_id", identityID.String()),
						zap.Error(err),
					)
					return nil
				}
				if err := s.profiles.Delete(ctx, identityID); err != nil {
					s.log.Warn("failed to delete profile",
						zap.String("identity_id", identityID.String()),
						zap.Error(err),
					)
				}
				if err := s.identities.Remove(ctx, identityID); err != nil {
					s.log.Warn("failed to remove identity, manual cleanup may be required",
						zap.String("identity_id", identityID.String()),
						zap.Error(err),
					)
					return nil
				}
				identityRemoved = true
				return nil
			},
		},
		{
			Name: "delete_player",
			Run: func(ctx context.Context) error {
				return s.players.Delete(ctx, player.ID)
			},
		},
	}

	if err := s.run(ctx, workflowRemovePlayer, steps); err != nil {
		return nil, err
	}

	s.log.Info("player removed",
		zap.Int64("player_id", int64(player.ID)),
		zap.Bool("identity_removed", identityRemoved),
	)

	return &domain.RemovePlayerResult{
		PlayerID:        player.ID,
		IdentityRemoved: identityRemoved,
	}, nil
}

// ReleasePlayer deletes the roster entry and revokes only the player
// grant scoped to that player's team. The login and any grants the same
// identity holds elsewhere survive.
func (s *Service) ReleasePlayer(ctx context.Context, caller authn.Caller, req domain.RemovePlayerRequest) (*domain.ReleasePlayerResult, error) {
	var (
		player       *rosterdomain.Player
		grantRevoked bool
	)

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.StaffTier(caller.Role) {
					return domain.ErrForbidden
				}
				found, err := s.players.FindByID(ctx, req.PlayerID)
				if err != nil {
					return err
				}
				player = found
				return nil
			},
		},
		{
			Name: "revoke_grant",
			Run: func(ctx context.Context) error {
				if !player.Linked() {
					return nil
				}
				err := s.grants.Delete(ctx, *player.IdentityID, player.TeamID, authn.RolePlayer)
				if err != nil {
					s.log.Warn("failed to revoke team grant",
						zap.String("identity_id", player.IdentityID.String()),
						zap.Int64("team_id", int64(player.TeamID)),
						zap.Error(err),
					)
					return nil
				}
				grantRevoked = true
				return nil
			},
		},
		{
			Name: "delete_player",
			Run: func(ctx context.Context) error {
				return s.players.Delete(ctx, player.ID)
			},
		},
	}

	if err := s.run(ctx, workflowReleasePlayer, steps); err != nil {
		return nil, err
	}

	s.log.Info("player released",
		zap.Int64("player_id", int64(player.ID)),
		zap.Bool("grant_revoked", grantRevoked),
	)

	return &domain.ReleasePlayerResult{
		PlayerID:     player.ID,
		GrantRevoked: grantRevoked,
	}, nil
}
