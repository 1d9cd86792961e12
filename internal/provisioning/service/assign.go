package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
)

// AssignCredentials links a login to an existing player and grants the
// player role on the player's team. A pre-existing identity is reused
// and survives rollback; an identity created here is deleted when a
// later step fails.
func (s *Service) AssignCredentials(ctx context.Context, caller authn.Caller, req domain.AssignCredentialsRequest) (*domain.AssignCredentialsResult, error) {
	var (
		player     *rosterdomain.Player
		resolution domain.IdentityResolution
	)

	address := normalizeEmail(req.Email)

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.AdminTier(caller.Role) {
					return domain.ErrForbidden
				}
				if !validEmail(address) {
					return domain.ErrInvalidEmail
				}
				if len(req.Password) < 6 {
					return identitydomain.ErrInvalidCredential
				}
				found, err := s.players.FindByID(ctx, req.PlayerID)
				if err != nil {
					return err
				}
				if found.Linked() {
					return rosterdomain.ErrAlreadyLinked
				}
				player = found
				return nil
			},
		},
		{
			Name: "resolve_identity",
			Run: func(ctx context.Context) error {
				existing, err := s.identities.FindByEmail(ctx, address)
				if err != nil {
					return err
				}
				if existing != nil {
					resolution = domain.IdentityResolution{Identity: existing}
					return nil
				}
				created, err := s.identities.Create(ctx, identitydomain.CreateRequest{
					Email:     address,
					Password:  req.Password,
					Confirmed: true,
					Metadata: map[string]any{
						"display_name": player.FullName,
						"role":         authn.RolePlayer,
					},
				})
				if err != nil {
					return err
				}
				resolution = domain.IdentityResolution{Identity: created, Created: true}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if !resolution.Created {
					return nil
				}
				return s.identities.Remove(ctx, resolution.Identity.ID)
			},
		},
		{
			Name: "link_player",
			Run: func(ctx context.Context) error {
				return s.players.Link(ctx, player.ID, resolution.Identity.ID, address)
			},
			Compensate: func(ctx context.Context) error {
				return s.players.Unlink(ctx, player.ID)
			},
		},
		{
			Name: "grant_role",
			Run: func(ctx context.Context) error {
				return s.grants.Insert(ctx, &grantdomain.TeamRole{
					IdentityID: resolution.Identity.ID,
					TeamID:     player.TeamID,
					Role:       authn.RolePlayer,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.grants.Delete(ctx, resolution.Identity.ID, player.TeamID, authn.RolePlayer)
			},
		},
	}

	if err := s.run(ctx, workflowAssignCredentials, steps); err != nil {
		return nil, err
	}

	message := "Existing account linked to player"
	if resolution.Created {
		message = "Account created and linked to player"
	}
	s.log.Info("credentials assigned",
		zap.Int64("player_id", int64(player.ID)),
		zap.String("identity_id", resolution.Identity.ID.String()),
		zap.Bool("identity_created", resolution.Created),
	)

	return &domain.AssignCredentialsResult{
		PlayerID:        player.ID,
		IdentityID:      resolution.Identity.ID,
		IdentityCreated: resolution.Created,
		Message:         message,
	}, nil
}
