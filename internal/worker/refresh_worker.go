// Package worker refreshes the fleet dataset on a schedule, persisting
// snapshots and announcing each rebuild.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fleetboard/internal/core"
	"fleetboard/internal/services"
	"fleetboard/internal/storage"
)

// Publisher announces a completed refresh. Optional.
type Publisher interface {
	PublishDatasetRefresh(ctx context.Context, trigger string, counts map[string]int) error
}

// RefreshWorker periodically rebuilds the dataset from the sheet source.
type RefreshWorker struct {
	aggregator *services.Aggregator
	datasets   *services.DatasetStore
	snapshots  *storage.SnapshotRepository
	events     Publisher
	interval   time.Duration
	keep       int

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRefreshWorker(
	aggregator *services.Aggregator,
	datasets *services.DatasetStore,
	snapshots *storage.SnapshotRepository,
	events Publisher,
	interval time.Duration,
	keep int,
) *RefreshWorker {
	return &RefreshWorker{
		aggregator: aggregator,
		datasets:   datasets,
		snapshots:  snapshots,
		events:     events,
		interval:   interval,
		keep:       keep,
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("refresh worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Refresh worker started", "interval", w.interval)
	return nil
}

// Stop gracefully stops the worker and waits for completion.
func (w *RefreshWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Refresh worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Refresh worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker loop is active.
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *RefreshWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Refresh immediately on startup
	w.RefreshOnce(ctx, "startup")

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RefreshOnce(ctx, "scheduled")
		}
	}
}

// RefreshOnce rebuilds the dataset, stores it, snapshots it, and publishes
// a refresh event. Snapshot and publish failures are logged, not fatal:
// the in-memory dataset is the source of truth for serving.
func (w *RefreshWorker) RefreshOnce(ctx context.Context, trigger string) core.Dataset {
	start := time.Now()
	ds := w.aggregator.FetchAll(ctx)
	w.datasets.Replace(ds)

	counts := make(map[string]int, len(ds))
	total := 0
	for name, records := range ds {
		counts[name] = len(records)
		total += len(records)
	}

	if w.snapshots != nil {
		fetchedAt := time.Now().UTC()
		if err := w.snapshots.SaveDataset(ctx, ds, fetchedAt); err != nil {
			slog.WarnContext(ctx, "Failed to persist dataset snapshot", "error", err)
		} else if err := w.snapshots.PruneSnapshots(ctx, w.keep); err != nil {
			slog.WarnContext(ctx, "Failed to prune snapshots", "error", err)
		}
	}

	if w.events != nil {
		if err := w.events.PublishDatasetRefresh(ctx, trigger, counts); err != nil {
			slog.WarnContext(ctx, "Failed to publish refresh event", "error", err)
		}
	}

	slog.InfoContext(ctx, "Dataset refreshed",
		"trigger", trigger,
		"records", total,
		"duration_ms", time.Since(start).Milliseconds())

	return ds
}
