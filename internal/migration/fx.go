package migration

import (
	"github.com/wardbooklabs/wardbook/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(cfg *config.Config) error {
		db, err := OpenMigrationDB(cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		return Run(db)
	}),
)
