// Package platform boots what every binary shares: .env and RASOI_* config,
// the structured logger, postgres and, when asked for, redis.
package platform

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/instance"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/migrate"
	"github.com/meetpatel1235/rrrr/pkg/redis"
)

type Options struct {
	// Service names the binary in every log line.
	Service string
	Redis   bool
	// DevMigrations applies pending migrations when running in dev with
	// auto-migrate enabled.
	DevMigrations bool
}

type Runtime struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *db.Client
	Redis  *redis.Client
}

// Start opens every resource opts asks for. On failure whatever was already
// opened is closed again.
func Start(ctx context.Context, opts Options) (rt *Runtime, err error) {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	rt = &Runtime{
		Config: cfg,
		Logger: logger.New(logger.Options{
			ServiceName: opts.Service,
			Level:       cfg.App.LogLevel,
			WarnStack:   cfg.App.LogWarnStack,
		}),
	}
	if dotenvErr != nil {
		rt.Logger.Debug(ctx, "platform.dotenv.skipped")
	}

	defer func() {
		if err != nil {
			err = multierr.Append(err, rt.Close())
			rt = nil
		}
	}()

	if rt.DB, err = db.New(ctx, cfg.DB, rt.Logger); err != nil {
		return rt, fmt.Errorf("connect database: %w", err)
	}
	if opts.DevMigrations {
		if err = migrate.MaybeRunDev(ctx, cfg, rt.Logger, rt.DB); err != nil {
			return rt, fmt.Errorf("dev migrations: %w", err)
		}
	}
	if opts.Redis {
		if rt.Redis, err = redis.New(ctx, cfg.Redis, rt.Logger); err != nil {
			return rt, fmt.Errorf("connect redis: %w", err)
		}
	}
	return rt, nil
}

// Context tags ctx with the environment and replica id for logging.
func (rt *Runtime) Context(ctx context.Context) context.Context {
	return rt.Logger.WithFields(ctx, map[string]any{
		"env":      rt.Config.App.Env,
		"instance": instance.GetID(),
	})
}

// Close releases redis then the database. Safe on a partial runtime.
func (rt *Runtime) Close() error {
	if rt == nil {
		return nil
	}
	var err error
	if rt.Redis != nil {
		err = multierr.Append(err, rt.Redis.Close())
	}
	if rt.DB != nil {
		err = multierr.Append(err, rt.DB.Close())
	}
	return err
}
