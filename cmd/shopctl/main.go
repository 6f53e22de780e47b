package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront/internal/config"
)

var (
	cfg    config.Config
	dsnArg string
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Storefront administration: schema and catalog",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if dsnArg != "" {
			cfg.PostgresDSN = dsnArg
		}
	},
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()
	cfg = config.Load()

	rootCmd.PersistentFlags().StringVar(&dsnArg, "db", "", "Postgres DSN (default: $POSTGRES_DSN)")
	rootCmd.AddCommand(migrateCmd(), productCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
