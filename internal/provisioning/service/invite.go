package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	invitedomain "github.com/courtside/rosterd/internal/invite/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

// Invite creates or reuses an account for the invitee and issues an
// action link: an invite link for a new account, a recovery link when
// the address already has one. An identity created here is kept even if
// a later step fails, so the invitee can still complete signup.
func (s *Service) Invite(ctx context.Context, caller authn.Caller, req domain.InviteRequest) (*domain.InviteResult, error) {
	var (
		resolution domain.IdentityResolution
		linkKind   identitydomain.LinkKind
		linkResult *identitydomain.ActionLinkResult
	)

	address := normalizeEmail(req.Email)
	displayName := displayNameOrDefault(req.DisplayName, address)
	sendEmail := true
	if req.SendEmail != nil {
		sendEmail = *req.SendEmail
	}

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.AdminTier(caller.Role) {
					return domain.ErrForbidden
				}
				if address == "" || req.Role == "" || len(req.TeamIDs) == 0 {
					return domain.ErrMissingFields
				}
				if !validEmail(address) {
					return domain.ErrInvalidEmail
				}
				switch req.Role {
				case authn.RoleCoach, authn.RoleAdmin, authn.RolePlayer:
				default:
					return domain.ErrInvalidRole
				}
				if req.Role == authn.RolePlayer {
					return s.validatePlayerInvite(ctx, req)
				}
				teams, err := s.players.FindTeams(ctx, req.TeamIDs)
				if err != nil {
					return err
				}
				if len(teams) != len(req.TeamIDs) {
					return rosterdomain.ErrTeamNotFound
				}
				return nil
			},
		},
		{
			// A newly created invitee identity is deliberately not
			// compensated. Rolling it back would invalidate a link the
			// invitee may already hold.
			Name: "resolve_identity",
			Run: func(ctx context.Context) error {
				existing, err := s.identities.FindByEmail(ctx, address)
				if err != nil {
					return err
				}
				if existing != nil {
					resolution = domain.IdentityResolution{Identity: existing}
					linkKind = identitydomain.LinkKindRecovery
					return nil
				}
				metadata := map[string]any{
					"display_name": displayName,
					"role":         req.Role,
				}
				if req.PlayerID != nil {
					metadata["player_id"] = req.PlayerID.String()
				}
				created, err := s.identities.Create(ctx, identitydomain.CreateRequest{
					Email:    address,
					Metadata: metadata,
				})
				if err != nil {
					return err
				}
				resolution = domain.IdentityResolution{Identity: created, Created: true}
				linkKind = identitydomain.LinkKindInvite
				return nil
			},
		},
		{
			Name: "issue_link",
			Run: func(ctx context.Context) error {
				result, err := s.identities.IssueActionLink(ctx, identitydomain.ActionLinkRequest{
					Email:      address,
					Kind:       linkKind,
					RedirectTo: req.RedirectTo,
					SendEmail:  sendEmail,
				})
				if err != nil {
					return err
				}
				linkResult = result
				return nil
			},
		},
		{
			Name: "record_invite",
			Run: func(ctx context.Context) error {
				teamIDs := make(datatypes.JSONSlice[string], 0, len(req.TeamIDs))
				for _, id := range req.TeamIDs {
					teamIDs = append(teamIDs, id.String())
				}
				var playerID *string
				if req.PlayerID != nil {
					value := req.PlayerID.String()
					playerID = &value
				}
				return s.invites.Upsert(ctx, &invitedomain.PendingInvite{
					Email:       address,
					DisplayName: displayName,
					Role:        req.Role,
					TeamIDs:     teamIDs,
					PlayerID:    playerID,
					Status:      invitedomain.StatusPending,
					CreatedBy:   caller.ID,
				})
			},
		},
	}

	if err := s.run(ctx, workflowInvite, steps); err != nil {
		return nil, err
	}

	s.log.Info("invite issued",
		zap.String("email", address),
		zap.String("role", req.Role),
		zap.String("link_kind", string(linkKind)),
		zap.Bool("email_sent", linkResult.EmailSent),
		zap.Bool("identity_created", resolution.Created),
	)

	return &domain.InviteResult{
		Link:            linkResult.Link,
		Message:         linkResult.Message,
		EmailSent:       linkResult.EmailSent,
		LinkKind:        string(linkKind),
		IdentityCreated: resolution.Created,
	}, nil
}

// validatePlayerInvite enforces the player-role constraints: the invite
// must target exactly one existing, unlinked player, scoped to that
// player's own team.
func (s *Service) validatePlayerInvite(ctx context.Context, req domain.InviteRequest) error {
	if req.PlayerID == nil {
		return domain.ErrPlayerIDRequired
	}
	player, err := s.players.FindByID(ctx, *req.PlayerID)
	if err != nil {
		return err
	}
	if player.Linked() {
		return rosterdomain.ErrAlreadyLinked
	}
	if len(req.TeamIDs) != 1 || req.TeamIDs[0] != player.TeamID {
		return domain.ErrPlayerTeamOnly
	}
	return nil
}
