package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"
)

// ChangePassword replaces the credential of an existing login.
func (s *Service) ChangePassword(ctx context.Context, caller authn.Caller, req domain.ChangePasswordRequest) error {
	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				if !authn.AdminTier(caller.Role) {
					return domain.ErrForbidden
				}
				return nil
			},
		},
		{
			Name: "update_credential",
			Run: func(ctx context.Context) error {
				return s.identities.UpdateCredential(ctx, req.IdentityID, req.NewPassword)
			},
		},
	}

	if err := s.run(ctx, workflowChangePassword, steps); err != nil {
		return err
	}

	s.log.Info("password changed",
		zap.String("identity_id", req.IdentityID.String()),
	)
	return nil
}
