package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/courtside/rosterd/internal/authn"
	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

// IdentityResolution tags an identity with how it was obtained. Only a
// resolution created inside the current workflow is eligible for
// compensation; a pre-existing identity is never deleted on rollback.
type IdentityResolution struct {
	Identity *identitydomain.Identity
	Created  bool
}

type AssignCredentialsRequest struct {
	PlayerID snowflake.ID
	Email    string
	Password string
}

type AssignCredentialsResult struct {
	PlayerID        snowflake.ID `json:"player_id"`
	IdentityID      uuid.UUID    `json:"identity_id"`
	IdentityCreated bool         `json:"identity_created"`
	Message         string       `json:"message"`
}

type CreateStaffRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	TeamIDs     []snowflake.ID
}

type CreateStaffResult struct {
	IdentityID   uuid.UUID `json:"identity_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	TeamsGranted int       `json:"teams_granted"`
}

type InviteRequest struct {
	Email       string
	DisplayName string
	Role        string
	TeamIDs     []snowflake.ID
	PlayerID    *snowflake.ID
	RedirectTo  string
	// SendEmail defaults to true when nil.
	SendEmail *bool
}

type InviteResult struct {
	Link            string `json:"link,omitempty"`
	Message         string `json:"message,omitempty"`
	EmailSent       bool   `json:"email_sent"`
	LinkKind        string `json:"link_kind"`
	IdentityCreated bool   `json:"identity_created"`
}

type ImportPlayerRequest struct {
	TeamID       snowflake.ID
	FullName     string
	JerseyNumber *int
	Email        *string
	IdentityID   *uuid.UUID
}

type ImportPlayerResult struct {
	Player *rosterdomain.Player `json:"player"`
}

type RemovePlayerRequest struct {
	PlayerID snowflake.ID
}

type RemovePlayerResult struct {
	PlayerID        snowflake.ID `json:"player_id"`
	IdentityRemoved bool         `json:"identity_removed"`
}

type ReleasePlayerResult struct {
	PlayerID     snowflake.ID `json:"player_id"`
	GrantRevoked bool         `json:"grant_revoked"`
}

type ChangePasswordRequest struct {
	IdentityID  uuid.UUID
	NewPassword string
}

// Service runs the account-management workflows. Each operation is a
// fixed step sequence with compensation on forward failure.
type Service interface {
	AssignCredentials(ctx context.Context, caller authn.Caller, req AssignCredentialsRequest) (*AssignCredentialsResult, error)
	CreateStaff(ctx context.Context, caller authn.Caller, req CreateStaffRequest) (*CreateStaffResult, error)
	Invite(ctx context.Context, caller authn.Caller, req InviteRequest) (*InviteResult, error)
	ImportPlayer(ctx context.Context, caller authn.Caller, req ImportPlayerRequest) (*ImportPlayerResult, error)
	RemovePlayer(ctx context.Context, caller authn.Caller, req RemovePlayerRequest) (*RemovePlayerResult, error)
	ReleasePlayer(ctx context.Context, caller authn.Caller, req RemovePlayerRequest) (*ReleasePlayerResult, error)
	ChangePassword(ctx context.Context, caller authn.Caller, req ChangePasswordRequest) error
}
