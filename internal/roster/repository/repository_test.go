package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/courtside/rosterd/internal/roster/domain"
	"github.com/courtside/rosterd/pkg/db"
)

func newRepo(t *testing.T) (domain.Repository, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Team{}, &domain.Player{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return Provide(conn), node
}

func TestLinkRefusesSecondLink(t *testing.T) {
	repo, node := newRepo(t)
	player := &domain.Player{ID: node.Generate(), TeamID: node.Generate(), FullName: "Ada"}
	require.NoError(t, repo.Insert(context.Background(), player))

	first := uuid.New()
	require.NoError(t, repo.Link(context.Background(), player.ID, first, "Ada@Example.com"))

	err := repo.Link(context.Background(), player.ID, uuid.New(), "other@example.com")
	require.ErrorIs(t, err, domain.ErrAlreadyLinked)

	// The original link is untouched and the email was normalized.
	stored, err := repo.FindByID(context.Background(), player.ID)
	require.NoError(t, err)
	require.Equal(t, first, *stored.IdentityID)
	require.Equal(t, "ada@example.com", *stored.Email)
}

func TestLinkMissingPlayer(t *testing.T) {
	repo, node := newRepo(t)
	err := repo.Link(context.Background(), node.Generate(), uuid.New(), "a@b.co")
	require.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestUnlinkClearsBothFields(t *testing.T) {
	repo, node := newRepo(t)
	player := &domain.Player{ID: node.Generate(), TeamID: node.Generate(), FullName: "Ada"}
	require.NoError(t, repo.Insert(context.Background(), player))
	require.NoError(t, repo.Link(context.Background(), player.ID, uuid.New(), "a@b.co"))

	require.NoError(t, repo.Unlink(context.Background(), player.ID))

	stored, err := repo.FindByID(context.Background(), player.ID)
	require.NoError(t, err)
	require.False(t, stored.Linked())
	require.Nil(t, stored.Email)

	// Unlinked players can be linked again.
	require.NoError(t, repo.Link(context.Background(), player.ID, uuid.New(), "b@c.co"))
}

func TestDeleteMissingPlayer(t *testing.T) {
	repo, node := newRepo(t)
	require.ErrorIs(t, repo.Delete(context.Background(), node.Generate()), domain.ErrPlayerNotFound)
}
