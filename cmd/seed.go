package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hmans/threads/internal/catalog"
)

var seedWatch bool

var seedCmd = &cobra.Command{
	Use:   "seed <dir>",
	Short: "Load catalog items from markdown seed files",
	Long: `Reads every .md file in the given directory as a catalog item:
YAML front matter carries title, price (minor units), image and
large_image; the markdown body becomes the description.

Seed files may carry a stable id in the front matter; without one, an
id is derived from the title. Re-seeding updates existing items in
place, so the command is idempotent.

Examples:
  # One-shot seed
  threads seed ./catalog

  # Keep watching the directory and re-seed on change
  threads seed --watch ./catalog`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		ctx := context.Background()

		if err := seedDir(ctx, dir); err != nil {
			return err
		}
		if !seedWatch {
			return nil
		}

		watcher := catalog.NewWatcher(dir, func() {
			if err := seedDir(context.Background(), dir); err != nil {
				log.Error().Err(err).Msg("re-seeding failed")
			}
		})
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()

		log.Info().Str("dir", dir).Msg("watching seed directory")
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()
		return nil
	},
}

// seedDir parses the directory and upserts every item.
func seedDir(ctx context.Context, dir string) error {
	items, err := catalog.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("loading seed files: %w", err)
	}
	for _, item := range items {
		if err := db.UpsertItem(ctx, item); err != nil {
			return fmt.Errorf("seeding %s: %w", item.ID, err)
		}
	}
	log.Info().Int("items", len(items)).Str("dir", dir).Msg("catalog seeded")
	return nil
}

func init() {
	seedCmd.Flags().BoolVarP(&seedWatch, "watch", "w", false, "Watch the directory and re-seed on change")
	rootCmd.AddCommand(seedCmd)
}
