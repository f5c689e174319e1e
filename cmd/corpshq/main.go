package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cadetops/corpshq/internal/authstate"
	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/blobstore"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/config"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/identity"
	"github.com/cadetops/corpshq/internal/logger"
	"github.com/cadetops/corpshq/internal/migration"
	"github.com/cadetops/corpshq/internal/seed"
	"github.com/cadetops/corpshq/internal/server"
	"github.com/cadetops/corpshq/internal/unit"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		backend.Module,
		migration.Module,

		// Stores
		docstore.Module,
		blobstore.Module,
		identity.Module,
		authstate.Module,

		// Personnel domain
		cadet.Module,
		unit.Module,
		award.Module,
		seed.Module,

		// HTTP surface
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
