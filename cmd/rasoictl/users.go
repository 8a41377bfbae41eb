package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetpatel1235/rrrr/internal/users"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

func newSeedAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the bootstrap admin when it does not exist yet",
		Long: `seed-admin inserts the admin described by RASOI_ADMIN_NAME, RASOI_ADMIN_EMAIL
and RASOI_ADMIN_PASSWORD. Running it again is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			boot := e.cfg.Bootstrap
			if strings.TrimSpace(boot.AdminEmail) == "" || boot.AdminPassword == "" {
				return fmt.Errorf("RASOI_ADMIN_EMAIL and RASOI_ADMIN_PASSWORD are required")
			}

			svc, err := e.usersService()
			if err != nil {
				return err
			}
			created, err := svc.EnsureAdmin(cmd.Context(), boot.AdminName, boot.AdminEmail, boot.AdminPassword)
			if err != nil {
				return err
			}

			ctx := e.logg.WithField(cmd.Context(), "email", strings.ToLower(boot.AdminEmail))
			if created {
				e.logg.Info(ctx, "admin account created")
				fmt.Fprintln(cmd.OutOrStdout(), "admin created")
			} else {
				e.logg.Info(ctx, "admin account already present")
				fmt.Fprintln(cmd.OutOrStdout(), "admin already exists")
			}
			return nil
		},
	}
	return cmd
}

func newCreateUserCmd() *cobra.Command {
	var req users.RegisterRequest

	cmd := &cobra.Command{
		Use:     "create-user",
		Short:   "Create a staff account",
		Example: `  rasoictl create-user --name "Kiran" --email kiran@example.com --password secret1 --role worker`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			generated := req.Password == ""
			if generated {
				if req.Password, err = security.GenerateTempPassword(12); err != nil {
					return err
				}
			}

			svc, err := e.usersService()
			if err != nil {
				return err
			}
			user, err := svc.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) %s\n", user.Email, user.Role, user.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "temporary password: %s\n", req.Password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (min 6 characters); generated when empty")
	cmd.Flags().StringVar(&req.Role, "role", "worker", "admin or worker")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
