package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/davegarvey/countries-api/internal/api"
	"github.com/davegarvey/countries-api/internal/cache"
	"github.com/davegarvey/countries-api/internal/client"
	"github.com/davegarvey/countries-api/internal/config"
	"github.com/davegarvey/countries-api/internal/dataset"
	"github.com/davegarvey/countries-api/internal/logging"
	"github.com/davegarvey/countries-api/internal/metrics"
	"github.com/davegarvey/countries-api/internal/service"
)

func main() {
	// Cancel the run context on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Printf("error: server failed: %v", err)
		os.Exit(1)
	}
}

// run sets up and runs the application until ctx is canceled.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("countries-api", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// --- Dependency Injection ---
	ds, err := loadDataset(ctx, cfg.Dataset, logger)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", zap.Int("countries", ds.Len()))

	m := metrics.New()
	m.SetDatasetSize(ds.Len())

	querySvc := service.New(ds, service.NewRandomPicker(), cache.NewInMemoryCache())
	router := api.NewRouter(
		api.NewCountryHandler(querySvc, logger),
		api.NewIndexHandler(ds.Len(), logger),
		m,
		logger,
		api.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			CORSMaxAge:     cfg.CORS.MaxAge,
			Disabled:       cfg.Server.Disabled,
		},
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	// Run the server in a separate goroutine so that it doesn't block.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.Bool("disabled", cfg.Server.Disabled))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server gracefully stopped")
	return nil
}

// loadDataset picks the first configured source: URL, then file, then the
// embedded dataset.
func loadDataset(ctx context.Context, cfg config.DatasetConfig, logger *zap.Logger) (*dataset.Dataset, error) {
	switch {
	case cfg.URL != "":
		logger.Info("loading dataset", zap.String("url", cfg.URL))
		c := client.NewDatasetClient(cfg.FetchTimeout.Std(), logger)
		c.MaxRetryElapsed = cfg.MaxRetryElapsed.Std()
		return c.Fetch(ctx, cfg.URL)
	case cfg.Path != "":
		logger.Info("loading dataset", zap.String("path", cfg.Path))
		return dataset.LoadFile(cfg.Path)
	default:
		logger.Info("loading embedded dataset")
		return dataset.Default()
	}
}
