package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/cache"
	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/dinebilllabs/dinebill/internal/migration"
	"github.com/dinebilllabs/dinebill/internal/observability"
	"github.com/dinebilllabs/dinebill/internal/server"
	"github.com/dinebilllabs/dinebill/pkg/db"
	"github.com/dinebilllabs/dinebill/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		cache.Module,

		// Schema and bootstrap data
		migration.Module,

		// HTTP surface; pulls in the catalog, billing and reporting domains
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
