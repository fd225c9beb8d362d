package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/unsentpro/unsent-api/internal/clock"
	"github.com/unsentpro/unsent-api/internal/config"
	"github.com/unsentpro/unsent-api/internal/message"
	"github.com/unsentpro/unsent-api/internal/migration"
	"github.com/unsentpro/unsent-api/internal/observability"
	"github.com/unsentpro/unsent-api/internal/providers/openai"
	"github.com/unsentpro/unsent-api/internal/ratelimit"
	"github.com/unsentpro/unsent-api/internal/server"
	"github.com/unsentpro/unsent-api/internal/subscription"
	"github.com/unsentpro/unsent-api/internal/validation"
	"github.com/unsentpro/unsent-api/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		validation.Module,
		openai.Module,
		ratelimit.Module,
		subscription.Module,
		message.Module,

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
