package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront/internal/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storefront tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := postgres.Connect(cmd.Context(), cfg.PostgresDSN, "shopctl")
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
