package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fleetboard/internal/amqp"
	"fleetboard/internal/backend"
	"fleetboard/internal/config"
	"fleetboard/internal/services"
	"fleetboard/internal/storage"
	"fleetboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting fleetboard-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher, err := backend.New(ctx, backend.Config{
		Type:           backend.Type(cfg.FetchBackend),
		SpreadsheetID:  cfg.SpreadsheetID,
		GIDOverrides:   cfg.GIDOverrides,
		TitleOverrides: cfg.TitleOverrides,
		FixtureDir:     cfg.FixtureDir,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize sheet backend", "error", err, "backend", cfg.FetchBackend)
		os.Exit(1)
	}

	snapshots, err := storage.NewSnapshotRepository(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SnapshotDBPath)
		os.Exit(1)
	}
	defer snapshots.Close()

	var events worker.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	aggregator := services.NewAggregator(fetcher, logger)
	datasets := services.NewDatasetStore()

	refreshWorker := worker.NewRefreshWorker(aggregator, datasets, snapshots, events, cfg.RefreshInterval, cfg.SnapshotKeep)
	if err := refreshWorker.Start(ctx); err != nil {
		logger.Error("Failed to start refresh worker", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := refreshWorker.Stop(stopCtx); err != nil {
		logger.Error("Worker stop error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
