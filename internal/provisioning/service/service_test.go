package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/provisioning/domain"
	"github.com/courtside/rosterd/internal/saga"
	"github.com/courtside/rosterd/pkg/db"

	grantdomain "github.com/courtside/rosterd/internal/grant/domain"
	grantrepo "github.com/courtside/rosterd/internal/grant/repository"
	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	invitedomain "github.com/courtside/rosterd/internal/invite/domain"
	inviterepo "github.com/courtside/rosterd/internal/invite/repository"
	profiledomain "github.com/courtside/rosterd/internal/profile/domain"
	profilerepo "github.com/courtside/rosterd/internal/profile/repository"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
	rosterrepo "github.com/courtside/rosterd/internal/roster/repository"
)

var errInjected = errors.New("injected failure")

// fakeGateway is an in-memory identity store with injectable failures.
type fakeGateway struct {
	identities map[string]*identitydomain.Identity

	failCreate bool
	failRemove bool
	removed    []uuid.UUID
	links      []identitydomain.ActionLinkRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{identities: make(map[string]*identitydomain.Identity)}
}

func (g *fakeGateway) FindByEmail(_ context.Context, email string) (*identitydomain.Identity, error) {
	if found, ok := g.identities[email]; ok {
		return found, nil
	}
	return nil, nil
}

func (g *fakeGateway) Create(_ context.Context, req identitydomain.CreateRequest) (*identitydomain.Identity, error) {
	if g.failCreate {
		return nil, errInjected
	}
	if _, ok := g.identities[req.Email]; ok {
		return nil, identitydomain.ErrDuplicateIdentity
	}
	created := &identitydomain.Identity{
		ID:        uuid.New(),
		Email:     req.Email,
		Confirmed: req.Confirmed,
	}
	g.identities[req.Email] = created
	return created, nil
}

func (g *fakeGateway) UpdateCredential(_ context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 6 {
		return identitydomain.ErrInvalidCredential
	}
	for _, identity := range g.identities {
		if identity.ID == id {
			return nil
		}
	}
	return identitydomain.ErrNotFound
}

func (g *fakeGateway) Remove(_ context.Context, id uuid.UUID) error {
	if g.failRemove {
		return errInjected
	}
	for email, identity := range g.identities {
		if identity.ID == id {
			delete(g.identities, email)
			g.removed = append(g.removed, id)
			return nil
		}
	}
	return identitydomain.ErrNotFound
}

func (g *fakeGateway) IssueActionLink(_ context.Context, req identitydomain.ActionLinkRequest) (*identitydomain.ActionLinkResult, error) {
	g.links = append(g.links, req)
	if req.SendEmail {
		return &identitydomain.ActionLinkResult{
			Message:   "Email sent successfully to " + req.Email,
			EmailSent: true,
		}, nil
	}
	return &identitydomain.ActionLinkResult{Link: "https://example.test/auth/verify?token=abc"}, nil
}

// failableGrants lets tests fail grant inserts selectively.
type failableGrants struct {
	grantdomain.Repository
	failInsert func(*grantdomain.TeamRole) error
}

func (f *failableGrants) Insert(ctx context.Context, grant *grantdomain.TeamRole) error {
	if f.failInsert != nil {
		if err := f.failInsert(grant); err != nil {
			return err
		}
	}
	return f.Repository.Insert(ctx, grant)
}

// failableInvites lets tests fail the invite upsert.
type failableInvites struct {
	invitedomain.Repository
	failUpsert bool
}

func (f *failableInvites) Upsert(ctx context.Context, invite *invitedomain.PendingInvite) error {
	if f.failUpsert {
		return errInjected
	}
	return f.Repository.Upsert(ctx, invite)
}

type fixture struct {
	t        *testing.T
	db       *gorm.DB
	svc      domain.Service
	gateway  *fakeGateway
	players  rosterdomain.Repository
	grants   *failableGrants
	invites  *failableInvites
	profiles profiledomain.Repository
	node     *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&rosterdomain.Team{},
		&rosterdomain.Player{},
		&grantdomain.TeamRole{},
		&invitedomain.PendingInvite{},
		&profiledomain.Profile{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gateway := newFakeGateway()
	grants := &failableGrants{Repository: grantrepo.Provide(conn)}
	invites := &failableInvites{Repository: inviterepo.Provide(conn)}
	players := rosterrepo.Provide(conn)
	profiles := profilerepo.Provide(conn)

	svc := New(Params{
		Log:        zap.NewNop(),
		Executor:   saga.New(zap.NewNop()),
		Identities: gateway,
		Players:    players,
		Grants:     grants,
		Invites:    invites,
		Profiles:   profiles,
		Node:       node,
	})

	return &fixture{
		t:        t,
		db:       conn,
		svc:      svc,
		gateway:  gateway,
		players:  players,
		grants:   grants,
		invites:  invites,
		profiles: profiles,
		node:     node,
	}
}

func (f *fixture) seedTeam(name string) rosterdomain.Team {
	f.t.Helper()
	team := rosterdomain.Team{ID: f.node.Generate(), Name: name}
	require.NoError(f.t, f.db.Create(&team).Error)
	return team
}

func (f *fixture) seedPlayer(team rosterdomain.Team, name string) *rosterdomain.Player {
	f.t.Helper()
	player := &rosterdomain.Player{ID: f.node.Generate(), TeamID: team.ID, FullName: name}
	require.NoError(f.t, f.players.Insert(context.Background(), player))
	return player
}

func (f *fixture) grantCount(identityID uuid.UUID) int {
	f.t.Helper()
	grants, err := f.grants.ListByIdentity(context.Background(), identityID)
	require.NoError(f.t, err)
	return len(grants)
}

var admin = authn.Caller{ID: uuid.New(), Role: authn.RoleAdmin}

func TestAssignCredentialsCreatesAndLinks(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")

	result, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "Ada@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.True(t, result.IdentityCreated)

	identity, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, identity)
	require.True(t, identity.Confirmed)

	linked, err := f.players.FindByID(context.Background(), player.ID)
	require.NoError(t, err)
	require.True(t, linked.Linked())
	require.Equal(t, identity.ID, *linked.IdentityID)
	require.Equal(t, 1, f.grantCount(identity.ID))
}

func TestAssignCredentialsReusesExistingIdentity(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")

	existing, err := f.gateway.Create(context.Background(), identitydomain.CreateRequest{Email: "ada@example.com"})
	require.NoError(t, err)

	result, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.False(t, result.IdentityCreated)
	require.Equal(t, existing.ID, result.IdentityID)
}

func TestAssignCredentialsRollsBackNewIdentity(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")
	f.grants.failInsert = func(*grantdomain.TeamRole) error { return errInjected }

	_, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.Error(t, err)

	var sagaErr *saga.Error
	require.ErrorAs(t, err, &sagaErr)
	require.Equal(t, "grant_role", sagaErr.Step)
	require.True(t, sagaErr.Compensation.AllSucceeded)

	// Compensation unlinked the player and deleted the new identity.
	identity, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Nil(t, identity)

	unlinked, err := f.players.FindByID(context.Background(), player.ID)
	require.NoError(t, err)
	require.False(t, unlinked.Linked())
}

func TestAssignCredentialsKeepsExistingIdentityOnRollback(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")
	f.grants.failInsert = func(*grantdomain.TeamRole) error { return errInjected }

	_, err := f.gateway.Create(context.Background(), identitydomain.CreateRequest{Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.Error(t, err)

	identity, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, identity)
	require.Empty(t, f.gateway.removed)
}

func TestAssignCredentialsValidation(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")

	cases := []struct {
		name    string
		caller  authn.Caller
		req     domain.AssignCredentialsRequest
		wantErr error
	}{
		{
			name:    "coach forbidden",
			caller:  authn.Caller{ID: uuid.New(), Role: authn.RoleCoach},
			req:     domain.AssignCredentialsRequest{PlayerID: player.ID, Email: "a@b.co", Password: "secret1"},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "invalid email",
			caller:  admin,
			req:     domain.AssignCredentialsRequest{PlayerID: player.ID, Email: "not-an-email", Password: "secret1"},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "short password",
			caller:  admin,
			req:     domain.AssignCredentialsRequest{PlayerID: player.ID, Email: "a@b.co", Password: "short"},
			wantErr: identitydomain.ErrInvalidCredential,
		},
		{
			name:    "missing player",
			caller:  admin,
			req:     domain.AssignCredentialsRequest{PlayerID: f.node.Generate(), Email: "a@b.co", Password: "secret1"},
			wantErr: rosterdomain.ErrPlayerNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AssignCredentials(context.Background(), tc.caller, tc.req)
			require.ErrorIs(t, err, tc.wantErr)

			var sagaErr *saga.Error
			require.ErrorAs(t, err, &sagaErr)
			require.Zero(t, sagaErr.Compensation.Attempted)
		})
	}
}

func TestAssignCredentialsRejectsLinkedPlayer(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")
	require.NoError(t, f.players.Link(context.Background(), player.ID, uuid.New(), "prior@example.com"))

	_, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.ErrorIs(t, err, rosterdomain.ErrAlreadyLinked)
	require.Empty(t, f.gateway.identities)
}

func TestCreateStaffGrantsAllTeams(t *testing.T) {
	f := newFixture(t)
	teamA := f.seedTeam("U16")
	teamB := f.seedTeam("U18")

	result, err := f.svc.CreateStaff(context.Background(), admin, domain.CreateStaffRequest{
		Email:   "coach@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{teamA.ID, teamB.ID},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.TeamsGranted)
	require.Equal(t, 2, f.grantCount(result.IdentityID))

	profile, err := f.profiles.FindByID(context.Background(), result.IdentityID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, authn.RoleCoach, profile.Role)
	require.Equal(t, "coach", profile.DisplayName)
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	_, err := f.gateway.Create(context.Background(), identitydomain.CreateRequest{Email: "coach@example.com"})
	require.NoError(t, err)

	_, err = f.svc.CreateStaff(context.Background(), admin, domain.CreateStaffRequest{
		Email:   "coach@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{team.ID},
	})
	require.ErrorIs(t, err, identitydomain.ErrDuplicateIdentity)
}

func TestCreateStaffKeepsIdentityWhenGrantsFail(t *testing.T) {
	f := newFixture(t)
	teamA := f.seedTeam("U16")
	teamB := f.seedTeam("U18")
	f.grants.failInsert = func(grant *grantdomain.TeamRole) error {
		if grant.TeamID == teamB.ID {
			return errInjected
		}
		return nil
	}

	_, err := f.svc.CreateStaff(context.Background(), admin, domain.CreateStaffRequest{
		Email:   "coach@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{teamA.ID, teamB.ID},
	})
	require.ErrorIs(t, err, errInjected)

	// The account is durable; the first grant was rolled back.
	identity, findErr := f.gateway.FindByEmail(context.Background(), "coach@example.com")
	require.NoError(t, findErr)
	require.NotNil(t, identity)
	require.Zero(t, f.grantCount(identity.ID))
}

func TestCreateStaffValidation(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")

	_, err := f.svc.CreateStaff(context.Background(), admin, domain.CreateStaffRequest{
		Email:   "coach@example.com",
		Role:    authn.RolePlayer,
		TeamIDs: []snowflake.ID{team.ID},
	})
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = f.svc.CreateStaff(context.Background(), admin, domain.CreateStaffRequest{
		Email:   "coach@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{team.ID, f.node.Generate()},
	})
	require.ErrorIs(t, err, rosterdomain.ErrTeamNotFound)
}

func TestInviteNewUserReturnsInviteLink(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	noEmail := false

	result, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:     "new@example.com",
		Role:      authn.RoleCoach,
		TeamIDs:   []snowflake.ID{team.ID},
		SendEmail: &noEmail,
	})
	require.NoError(t, err)
	require.True(t, result.IdentityCreated)
	require.Equal(t, string(identitydomain.LinkKindInvite), result.LinkKind)
	require.NotEmpty(t, result.Link)
	require.False(t, result.EmailSent)

	pending, err := f.invites.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, invitedomain.StatusPending, pending.Status)
}

func TestInviteExistingUserGetsRecoveryLink(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	_, err := f.gateway.Create(context.Background(), identitydomain.CreateRequest{Email: "old@example.com"})
	require.NoError(t, err)

	result, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:   "old@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{team.ID},
	})
	require.NoError(t, err)
	require.False(t, result.IdentityCreated)
	require.Equal(t, string(identitydomain.LinkKindRecovery), result.LinkKind)
	require.True(t, result.EmailSent)
}

func TestInviteRequiresTeams(t *testing.T) {
	f := newFixture(t)

	for _, role := range []string{authn.RoleCoach, authn.RoleAdmin} {
		_, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
			Email: "new@example.com",
			Role:  role,
		})
		require.ErrorIs(t, err, domain.ErrMissingFields)
	}

	// Validation fails before any side effect.
	require.Empty(t, f.gateway.identities)
	pending, err := f.invites.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.Nil(t, pending)
}

func TestInvitePlayerRoleConstraints(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	other := f.seedTeam("U18")
	player := f.seedPlayer(team, "Ada Lovelace")

	_, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:   "p@example.com",
		Role:    authn.RolePlayer,
		TeamIDs: []snowflake.ID{team.ID},
	})
	require.ErrorIs(t, err, domain.ErrPlayerIDRequired)

	_, err = f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:    "p@example.com",
		Role:     authn.RolePlayer,
		TeamIDs:  []snowflake.ID{other.ID},
		PlayerID: &player.ID,
	})
	require.ErrorIs(t, err, domain.ErrPlayerTeamOnly)

	require.NoError(t, f.players.Link(context.Background(), player.ID, uuid.New(), "linked@example.com"))
	_, err = f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:    "p@example.com",
		Role:     authn.RolePlayer,
		TeamIDs:  []snowflake.ID{team.ID},
		PlayerID: &player.ID,
	})
	require.ErrorIs(t, err, rosterdomain.ErrAlreadyLinked)
}

func TestInviteReplacesPendingRecord(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")

	for _, role := range []string{authn.RoleCoach, authn.RoleAdmin} {
		_, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
			Email:   "again@example.com",
			Role:    role,
			TeamIDs: []snowflake.ID{team.ID},
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&invitedomain.PendingInvite{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	pending, err := f.invites.FindByEmail(context.Background(), "again@example.com")
	require.NoError(t, err)
	require.Equal(t, authn.RoleAdmin, pending.Role)
}

func TestInviteKeepsIdentityWhenRecordingFails(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	f.invites.failUpsert = true

	_, err := f.svc.Invite(context.Background(), admin, domain.InviteRequest{
		Email:   "new@example.com",
		Role:    authn.RoleCoach,
		TeamIDs: []snowflake.ID{team.ID},
	})
	require.ErrorIs(t, err, errInjected)

	// The invitee identity is deliberately not rolled back.
	identity, findErr := f.gateway.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, findErr)
	require.NotNil(t, identity)
}

func TestImportPlayerWithoutIdentity(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	coach := authn.Caller{ID: uuid.New(), Role: authn.RoleCoach}

	result, err := f.svc.ImportPlayer(context.Background(), coach, domain.ImportPlayerRequest{
		TeamID:   team.ID,
		FullName: "Grace Hopper",
	})
	require.NoError(t, err)

	stored, err := f.players.FindByID(context.Background(), result.Player.ID)
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", stored.FullName)
	require.False(t, stored.Linked())
}

func TestImportPlayerDeletesPlayerWhenGrantFails(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	identityID := uuid.New()

	// Pre-existing grant makes the insert collide.
	require.NoError(t, f.grants.Insert(context.Background(), &grantdomain.TeamRole{
		IdentityID: identityID,
		TeamID:     team.ID,
		Role:       authn.RolePlayer,
	}))

	_, err := f.svc.ImportPlayer(context.Background(), admin, domain.ImportPlayerRequest{
		TeamID:     team.ID,
		FullName:   "Grace Hopper",
		IdentityID: &identityID,
	})
	require.ErrorIs(t, err, grantdomain.ErrDuplicateGrant)

	var count int64
	require.NoError(t, f.db.Model(&rosterdomain.Player{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRemovePlayerDeletesIdentityAndGrants(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")

	_, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	result, err := f.svc.RemovePlayer(context.Background(), admin, domain.RemovePlayerRequest{PlayerID: player.ID})
	require.NoError(t, err)
	require.True(t, result.IdentityRemoved)

	_, err = f.players.FindByID(context.Background(), player.ID)
	require.ErrorIs(t, err, rosterdomain.ErrPlayerNotFound)

	identity, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.Nil(t, identity)
}

func TestRemovePlayerSucceedsWhenIdentityRemovalFails(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	player := f.seedPlayer(team, "Ada Lovelace")

	_, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	f.gateway.failRemove = true
	result, err := f.svc.RemovePlayer(context.Background(), admin, domain.RemovePlayerRequest{PlayerID: player.ID})
	require.NoError(t, err)
	require.False(t, result.IdentityRemoved)

	_, err = f.players.FindByID(context.Background(), player.ID)
	require.ErrorIs(t, err, rosterdomain.ErrPlayerNotFound)
}

func TestReleasePlayerKeepsIdentityAndOtherGrants(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam("U16")
	other := f.seedTeam("U18")
	player := f.seedPlayer(team, "Ada Lovelace")

	_, err := f.svc.AssignCredentials(context.Background(), admin, domain.AssignCredentialsRequest{
		PlayerID: player.ID,
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	identity, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, f.grants.Insert(context.Background(), &grantdomain.TeamRole{
		IdentityID: identity.ID,
		TeamID:     other.ID,
		Role:       authn.RoleCoach,
	}))

	result, err := f.svc.ReleasePlayer(context.Background(), admin, domain.RemovePlayerRequest{PlayerID: player.ID})
	require.NoError(t, err)
	require.True(t, result.GrantRevoked)

	_, err = f.players.FindByID(context.Background(), player.ID)
	require.ErrorIs(t, err, rosterdomain.ErrPlayerNotFound)

	// Identity and the unrelated grant survive.
	survivor, err := f.gateway.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, survivor)
	require.Equal(t, 1, f.grantCount(identity.ID))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	identity, err := f.gateway.Create(context.Background(), identitydomain.CreateRequest{Email: "ada@example.com"})
	require.NoError(t, err)

	err = f.svc.ChangePassword(context.Background(), admin, domain.ChangePasswordRequest{
		IdentityID:  identity.ID,
		NewPassword: "short",
	})
	require.ErrorIs(t, err, identitydomain.ErrInvalidCredential)

	err = f.svc.ChangePassword(context.Background(), admin, domain.ChangePasswordRequest{
		IdentityID:  uuid.New(),
		NewPassword: "longenough",
	})
	require.ErrorIs(t, err, identitydomain.ErrNotFound)

	err = f.svc.ChangePassword(context.Background(), authn.Caller{ID: uuid.New(), Role: authn.RolePlayer}, domain.ChangePasswordRequest{
		IdentityID:  identity.ID,
		NewPassword: "longenough",
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.ChangePassword(context.Background(), admin, domain.ChangePasswordRequest{
		IdentityID:  identity.ID,
		NewPassword: "longenough",
	})
	require.NoError(t, err)
}
