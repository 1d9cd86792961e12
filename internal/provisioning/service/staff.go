package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	profiledomain "github.com/courtside/rosterd/internal/profile/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

// CreateStaff provisions a coach or admin account and grants the role on
// each requested team. The created identity is durable: a grant failure
// rolls back earlier grants but keeps the account, so the operator can
// retry the grants without re-creating credentials.
func (s *Service) CreateStaff(ctx context.Context, caller authn.Caller, req domain.CreateStaffRequest) (*domain.CreateStaffResult, error) {
	var identity *identitydomain.Identity

	address := normalizeEmail(req.Email)
	password := req.Password
	if password == "" {
		password = uuid.NewString()
	}
	displayName := displayNameOrDefault(req.DisplayName, address)

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.AdminTier(caller.Role) {
					return domain.ErrForbidden
				}
				if address == "" {
					return domain.ErrMissingFields
				}
				if !validEmail(address) {
					return domain.ErrInvalidEmail
				}
				if req.Role != authn.RoleCoach && req.Role != authn.RoleAdmin {
					return domain.ErrInvalidRole
				}
				if len(req.TeamIDs) == 0 {
					return domain.ErrMissingFields
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
			// No compensation: the identity outlives grant failures.
			Name: "create_identity",
			Run: func(ctx context.Context) error {
				created, err := s.identities.Create(ctx, identitydomain.CreateRequest{
					Email:     address,
					Password:  password,
					Confirmed: true,
					Metadata: map[string]any{
						"display_name": displayName,
						"role":         req.Role,
					},
				})
				if err != nil {
					return err
				}
				identity = created
				return nil
			},
		},
		{
			// Best effort: a missing profile row only degrades display,
			// so failure is logged and the workflow continues.
			Name: "upsert_profile",
			Run: func(ctx context.Context) error {
				err := s.profiles.Upsert(ctx, &profiledomain.Profile{
					ID:          identity.ID,
					DisplayName: displayName,
					Role:        req.Role,
				})
				if err != nil {
					s.log.Warn("profile upsert failed",
						zap.String("identity_id", identity.ID.String()),
						zap.Error(err),
					)
				}
				return nil
			},
		},
		{
			Name: "grant_roles",
			Run: func(ctx context.Context) error {
				return s.run(ctx, workflowCreateStaff+".grants", s.grantSteps(identity.ID, req.Role, req.TeamIDs))
			},
		},
	}

	if err := s.run(ctx, workflowCreateStaff, steps); err != nil {
		return nil, err
	}

	s.log.Info("staff account created",
		zap.String("identity_id", identity.ID.String()),
		zap.String("role", req.Role),
		zap.Int("teams", len(req.TeamIDs)),
	)

	return &domain.CreateStaffResult{
		IdentityID:   identity.ID,
		Email:        address,
		Role:         req.Role,
		TeamsGranted: len(req.TeamIDs),
	}, nil
}

// grantSteps builds one grant step per team, each compensated by the
// scoped delete of exactly that grant.
func (s *Service) grantSteps(identityID uuid.UUID, role string, teamIDs []snowflake.ID) []saga.Step {
	steps := make([]saga.Step, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		teamID := teamID
		steps = append(steps, saga.Step{
			Name: fmt.Sprintf("grant_team_%d", teamID),
			Run: func(ctx context.Context) error {
				return s.grants.Insert(ctx, &grantdomain.TeamRole{
					IdentityID: identityID,
					TeamID:     teamID,
					Role:       role,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.grants.Delete(ctx, identityID, teamID, role)
			},
		})
	}
	return steps
}
