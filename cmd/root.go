package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hmans/threads/internal/config"
	"github.com/hmans/threads/internal/logger"
	"github.com/hmans/threads/internal/store"
)

var (
	cfg *config.Config
	log zerolog.Logger
	db  *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "threads",
	Short: "The Threads storefront backend",
	Long: `Threads is the backend of a small clothing storefront: a GraphQL API
for browsing items, managing a cart, and checking out, plus operator
tooling for migrations, seeding, and inventory management.

Configuration comes from the environment; APP_SECRET and DATABASE_URL
are required.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log = logger.New(cfg.LogLevel)

		db, err = store.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
