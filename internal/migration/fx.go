package migration

import (
	"github.com/unsentpro/unsent-api/internal/config"
	"github.com/unsentpro/unsent-api/internal/message/domain"
	subscriptiondomain "github.com/unsentpro/unsent-api/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// SQL migrations target postgres. For sqlite deployments the schema
		// is derived from the models instead.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&subscriptiondomain.Subscription{},
				&domain.MessageLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
