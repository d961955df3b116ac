package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sowndhar-gif/halleyx/internal/pkg/config"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account if it does not exist",
	Long: `Create the account for ADMIN_EMAIL with the password in SEED_ADMIN_PASSWORD.

Running it again is a no-op; an existing account is never modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.StoreDriver == config.StoreMemory {
			return errors.New("seed-admin needs a persistent store; set STORE_DRIVER=mongo")
		}
		if cfg.Auth.SeedAdminPassword == "" {
			return errors.New("SEED_ADMIN_PASSWORD is required")
		}

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		created, err := a.auth.SeedAdmin(ctx, cfg.Auth.SeedAdminPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", cfg.Auth.AdminEmail)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", cfg.Auth.AdminEmail)
		}
		return nil
	},
}
