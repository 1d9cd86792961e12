package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/courtside/rosterd/internal/authn"
	"github.com/courtside/rosterd/internal/config"
	"github.com/courtside/rosterd/internal/grant"
	"github.com/courtside/rosterd/internal/identity"
	"github.com/courtside/rosterd/internal/invite"
	"github.com/courtside/rosterd/internal/metrics"
	"github.com/courtside/rosterd/internal/migration"
	"github.com/courtside/rosterd/internal/observability"
	"github.com/courtside/rosterd/internal/profile"
	"github.com/courtside/rosterd/internal/providers/email"
	"github.com/courtside/rosterd/internal/provisioning"
	"github.com/courtside/rosterd/internal/roster"
	"github.com/courtside/rosterd/internal/server"
	"github.com/courtside/rosterd/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		metrics.Module,
		email.Module,

		// Functional domains
		identity.Module,
		profile.Module,
		roster.Module,
		grant.Module,
		invite.Module,
		authn.Module,
		provisioning.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
