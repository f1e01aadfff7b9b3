package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/config"
	"github.com/ashokbhamla/triposia.com-sub002/internal/api"
	"github.com/ashokbhamla/triposia.com-sub002/internal/sitemap"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
	"github.com/ashokbhamla/triposia.com-sub002/internal/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.NewLogger(utils.LogOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
		Name:   "server",
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Initialize storage
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	// Initialize database tables
	if err := store.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database tables: %w", err)
	}

	generator := sitemap.NewGenerator(store, cfg.BaseURL(),
		sitemap.WithPartSize(cfg.Sitemap.PartSize),
		sitemap.WithPartCount(cfg.Sitemap.PartCount),
		sitemap.WithDynamicParts(cfg.Sitemap.DynamicParts),
	)

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(cfg.Server.Port, store, generator, logger.Logger)

	// Start the API server
	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Str("site", cfg.BaseURL()).
			Msg("Starting API server")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// Wait for shutdown
	return waitForShutdown(server, errc, logger)
}

func waitForShutdown(server *api.Server, errc <-chan error, logger *utils.Logger) error {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return fmt.Errorf("failed to start API server: %w", err)
	case <-sigChan:
	}
	logger.Info().Msg("Shutting down...")

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Error shutting down server")
		return err
	}
	logger.Info().Msg("Server shut down gracefully")
	return nil
}
