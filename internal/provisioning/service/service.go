package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/courtside/rosterd/internal/metrics"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	invitedomain "github.com/courtside/rosterd/internal/invite/domain"
	profiledomain "github.com/courtside/rosterd/internal/profile/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

const (
	workflowAssignCredentials = "assign_credentials"
	workflowCreateStaff       = "create_staff"
	workflowInvite            = "invite"
	workflowImportPlayer      = "import_player"
	workflowRemovePlayer      = "remove_player"
	workflowReleasePlayer     = "release_player"
	workflowChangePassword    = "change_password"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Params struct {
	fx.In

	Log        *zap.Logger
	Executor   *saga.Executor
	Metrics    *metrics.Collector `optional:"true"`
	Identities identitydomain.Gateway
	Players    rosterdomain.Repository
	Grants     grantdomain.Repository
	Invites    invitedomain.Repository
	Profiles   profiledomain.Repository
	Node       *snowflake.Node
}

type Service struct {
	log        *zap.Logger
	executor   *saga.Executor
	metrics    *metrics.Collector
	identities identitydomain.Gateway
	players    rosterdomain.Repository
	grants     grantdomain.Repository
	invites    invitedomain.Repository
	profiles   profiledomain.Repository
	node       *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("provisioning"),
		executor:   p.Executor,
		metrics:    p.Metrics,
		identities: p.Identities,
		players:    p.Players,
		grants:     p.Grants,
		invites:    p.Invites,
		profiles:   p.Profiles,
		node:       p.Node,
	}
}

// run executes the workflow and records its outcome.
func (s *Service) run(ctx context.Context, workflow string, steps []saga.Step) error {
	err := s.executor.Run(ctx, workflow, steps)
	s.metrics.RecordWorkflow(workflow, err == nil)

	var sagaErr *saga.Error
	if errors.As(err, &sagaErr) {
		s.metrics.RecordStepFailure(workflow, sagaErr.Step)
		s.metrics.RecordCompensations(workflow,
			sagaErr.Compensation.Attempted, len(sagaErr.Compensation.Failures))
	}
	return err
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// displayNameOrDefault falls back to the email local part.
func displayNameOrDefault(name, email string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
