package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meetpatel1235/rrrr/internal/platform"
	"github.com/meetpatel1235/rrrr/internal/users"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rasoictl",
		Short: "Operator tooling for the Rasoi Vasan backend",
		Long: `rasoictl runs one-off operational tasks against the configured database:
schema migrations, seeding the first admin, creating staff accounts and
exporting order reports.

Configuration is read from RASOI_* environment variables (and .env when present).`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedAdminCmd(),
		newCreateUserCmd(),
		newExportOrdersCmd(),
	)
	return root
}

// env bundles the resources every subcommand needs.
type env struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client
	rt   *platform.Runtime
}

func bootstrap(ctx context.Context) (*env, error) {
	rt, err := platform.Start(ctx, platform.Options{Service: "rasoictl"})
	if err != nil {
		return nil, err
	}
	return &env{cfg: rt.Config, logg: rt.Logger, db: rt.DB, rt: rt}, nil
}

func (e *env) close() {
	if err := e.rt.Close(); err != nil {
		e.logg.Error(context.Background(), "rasoictl.close", err)
	}
}

func (e *env) usersService() (users.Service, error) {
	return users.NewService(users.NewRepository(e.db.DB()), e.cfg.Password)
}
