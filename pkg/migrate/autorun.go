package migrate

import (
	"context"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot, but only in the dev
// environment with RASOI_AUTO_MIGRATE set. Other environments migrate through
// `rasoictl migrate up`.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	pool, err := client.SQLDB()
	if err != nil {
		return err
	}
	migrator, err := NewMigrator(pool, nil)
	if err != nil {
		return err
	}

	applied, err := migrator.Up(ctx)
	for _, a := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version": a.Version,
			"file":    a.File,
			"took_ms": a.Took.Milliseconds(),
		}), "migrate.applied")
	}
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "migrate.dev_autorun_done")
	return nil
}
