package domain

import (
	"context"

	"github.com/google/uuid"
)

type LinkKind string

const (
	LinkKindInvite   LinkKind = "invite"
	LinkKindRecovery LinkKind = "recovery"
)

type CreateRequest struct {
	Email string
	// Password may be empty for invited identities that set their own
	// credential through the action link.
	Password  string
	Confirmed bool
	Metadata  map[string]any
}

type ActionLinkRequest struct {
	Email      string
	Kind       LinkKind
	RedirectTo string
	// SendEmail dispatches the link through the email provider instead
	// of returning it.
	SendEmail bool
}

type ActionLinkResult struct {
	// Link is set in link-only mode.
	Link string
	// Message is the human confirmation returned in email mode.
	Message   string
	EmailSent bool
}

// Gateway is the capability facade over the identity store. Entity and
// role-grant state is never touched here.
type Gateway interface {
	// FindByEmail matches case-insensitively and returns nil when absent.
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	Create(ctx context.Context, req CreateRequest) (*Identity, error)
	UpdateCredential(ctx context.Context, id uuid.UUID, newPassword string) error
	Remove(ctx context.Context, id uuid.UUID) error
	IssueActionLink(ctx context.Context, req ActionLinkRequest) (*ActionLinkResult, error)
}
