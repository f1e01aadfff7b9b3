package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ashokbhamla/triposia.com-sub002/config"
	"github.com/ashokbhamla/triposia.com-sub002/internal/seed"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
	"github.com/ashokbhamla/triposia.com-sub002/internal/utils"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load fixture documents into the configured store",
	Long: `seed reads a JSON object mapping collection names to arrays of documents
and inserts them into the store named by config.yaml or DATABASE_DRIVER and
DATABASE_URL.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.NewLogger(utils.LogOptions{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database tables: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	counts, err := seed.Load(ctx, store, f)
	for name, n := range counts {
		logger.Info().Str("collection", name).Int("documents", n).Msg("seeded")
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
