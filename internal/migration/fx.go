package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/dinebilllabs/dinebill/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunPostgresMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultOrgID != 0 {
			return seed.EnsureDefaults(conn, node, cfg.DefaultOrgID)
		}
		return nil
	}),
)
