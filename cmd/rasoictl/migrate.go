package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meetpatel1235/rrrr/pkg/migrate"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
		Long: `Migrations are embedded in the binary; the database commands need no
checkout of the repository. create and validate work on a source directory.`,
	}
	cmd.AddCommand(
		migrationRunCmd("up", "Apply every pending migration", cobra.NoArgs, func(ctx context.Context, m *migrate.Migrator, _ []string) ([]migrate.Applied, error) {
			return m.Up(ctx)
		}),
		migrationRunCmd("down", "Roll back the most recent migration", cobra.NoArgs, func(ctx context.Context, m *migrate.Migrator, _ []string) ([]migrate.Applied, error) {
			return m.Down(ctx)
		}),
		migrationRunCmd("to VERSION", "Migrate up or down to exactly VERSION", cobra.ExactArgs(1), func(ctx context.Context, m *migrate.Migrator, args []string) ([]migrate.Applied, error) {
			target, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("version must be YYYYMMDDHHMMSS: %w", err)
			}
			return m.To(ctx, target)
		}),
		newMigrateStatusCmd(),
		newMigrateCreateCmd(),
		newMigrateValidateCmd(),
	)
	return cmd
}

type migrationRun func(ctx context.Context, m *migrate.Migrator, args []string) ([]migrate.Applied, error)

func migrationRunCmd(use, short string, args cobra.PositionalArgs, run migrationRun) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return withMigrator(cmd.Context(), func(m *migrate.Migrator) error {
				applied, err := run(cmd.Context(), m, argv)
				printApplied(cmd.OutOrStdout(), applied)
				if err != nil {
					return err
				}
				version, err := m.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
				return nil
			})
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(m *migrate.Migrator) error {
				rows, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tAPPLIED AT\tFILE")
				for _, row := range rows {
					appliedAt := "pending"
					if row.Applied {
						appliedAt = row.AppliedAt.Format(time.DateTime)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\n", row.Version, appliedAt, row.File)
				}
				return tw.Flush()
			})
		},
	}
}

func newMigrateCreateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "create NAME",
		Short:   "Write an empty SQL migration",
		Args:    cobra.ExactArgs(1),
		Example: `  rasoictl migrate create "add customer gstin"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.NewSQLFile(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", migrate.DefaultDir, "migrations source directory")
	return cmd
}

func newMigrateValidateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check migration file names and goose sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var source fs.FS = migrate.Source()
			if dir != "" {
				source = os.DirFS(dir)
			}
			if err := migrate.Validate(source); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "validate a directory instead of the embedded migrations")
	return cmd
}

func withMigrator(ctx context.Context, fn func(*migrate.Migrator) error) error {
	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	pool, err := e.db.SQLDB()
	if err != nil {
		return err
	}
	m, err := migrate.NewMigrator(pool, nil)
	if err != nil {
		return err
	}
	return fn(m)
}

func printApplied(w io.Writer, applied []migrate.Applied) {
	for _, a := range applied {
		fmt.Fprintf(w, "%-5s %d %s (%s)\n", a.Direction, a.Version, a.File, a.Took.Round(time.Millisecond))
	}
}
