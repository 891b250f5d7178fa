package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fleetboard/internal/amqp"
	"fleetboard/internal/approval"
	approvalmongo "fleetboard/internal/approval/mongo"
	"fleetboard/internal/backend"
	"fleetboard/internal/config"
	"fleetboard/internal/core"
	apphttp "fleetboard/internal/http"
	"fleetboard/internal/services"
	"fleetboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

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

	aggregator := services.NewAggregator(fetcher, logger)
	datasets := services.NewDatasetStore()

	// Snapshot store is optional: without it the service just starts cold.
	var snapshots *storage.SnapshotRepository
	if cfg.SnapshotDBPath != "" {
		snapshots, err = storage.NewSnapshotRepository(cfg.SnapshotDBPath)
		if err != nil {
			logger.Warn("Snapshot store unavailable, continuing without persistence", "error", err, "path", cfg.SnapshotDBPath)
		} else {
			defer snapshots.Close()
			if ds, err := snapshots.LatestDataset(ctx); err != nil {
				logger.Warn("Failed to load last snapshot", "error", err)
			} else if total := countRecords(ds); total > 0 {
				datasets.Replace(ds)
				logger.Info("Loaded dataset from last snapshot", "records", total)
			}
		}
	}

	var approvals approval.Store
	if cfg.MongoURI != "" {
		store, cleanup, err := approvalmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer cleanup()
		approvals = store
		logger.Info("User approval store backed by MongoDB", "database", cfg.MongoDatabase)
	} else {
		approvals = approval.NewMemoryStore()
		logger.Info("User approval store running in memory")
	}

	var amqpClient *amqp.Client
	var events apphttp.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Aggregator:     aggregator,
		Datasets:       datasets,
		Approvals:      approvals,
		Events:         events,
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Fetch fresh data in the background so startup never blocks on the
	// spreadsheet.
	go func() {
		ds := aggregator.FetchAll(ctx)
		datasets.Replace(ds)
		srv.InvalidateCharts()
		if snapshots != nil {
			if err := snapshots.SaveDataset(ctx, ds, time.Now().UTC()); err != nil {
				logger.Warn("Failed to persist startup snapshot", "error", err)
			}
		}
		logger.Info("Initial dataset loaded", "sheets", len(ds))
	}()

	// The refresh worker announces each run over AMQP after writing its
	// snapshot; reload that snapshot so this process serves the new data.
	if amqpClient != nil && snapshots != nil {
		go func() {
			err := amqpClient.ConsumeRefresh(ctx, func(msg *amqp.RefreshMessage) error {
				ds, err := snapshots.LatestDataset(ctx)
				if err != nil {
					return fmt.Errorf("reload snapshot: %w", err)
				}
				datasets.Replace(ds)
				srv.InvalidateCharts()
				logger.Info("Dataset reloaded from refresh event",
					"trigger", msg.Trigger, "sheets", len(msg.Counts))
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("Refresh event consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fleetboard server", "port", cfg.Port, "backend", cfg.FetchBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func countRecords(ds core.Dataset) int {
	total := 0
	for _, records := range ds {
		total += len(records)
	}
	return total
}
