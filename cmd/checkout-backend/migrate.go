package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pix-checkout/internal/config"
	"pix-checkout/internal/infrastructure/repo"
)

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and optionally load --seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("migrate needs --database-url or CHECKOUT_DATABASE_URL")
			}
			ctx := cmd.Context()
			pg, err := repo.NewPostgresRepo(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			if cfg.SeedFile != "" {
				if err := applySeed(ctx, cfg.SeedFile, pg); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
