package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetboard/internal/services"
	"fleetboard/internal/sheets"
	"fleetboard/internal/sheets/memory"
)

type recordingPublisher struct {
	triggers []string
}

func (p *recordingPublisher) PublishDatasetRefresh(_ context.Context, trigger string, _ map[string]int) error {
	p.triggers = append(p.triggers, trigger)
	return nil
}

func newTestWorker(t *testing.T) (*RefreshWorker, *services.DatasetStore, *recordingPublisher) {
	t.Helper()

	store := memory.New()
	store.Set(sheets.OnRouteVehicles, "Date,Zone,Count\n2024-03-01,1,10\n")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := services.NewAggregator(store, logger)
	datasets := services.NewDatasetStore()
	pub := &recordingPublisher{}

	return NewRefreshWorker(agg, datasets, nil, pub, time.Minute, 30), datasets, pub
}

func TestRefreshOnce(t *testing.T) {
	w, datasets, pub := newTestWorker(t)

	ds := w.RefreshOnce(context.Background(), "manual")

	if len(ds[sheets.OnRouteVehicles]) != 1 {
		t.Errorf("refreshed dataset = %+v", ds[sheets.OnRouteVehicles])
	}
	if got := datasets.Sheet(sheets.OnRouteVehicles); len(got) != 1 {
		t.Error("dataset store not updated")
	}
	if len(pub.triggers) != 1 || pub.triggers[0] != "manual" {
		t.Errorf("published triggers = %v", pub.triggers)
	}
}

func TestStartStop(t *testing.T) {
	w, datasets, _ := newTestWorker(t)
	ctx := context.Background()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := w.Start(ctx); err == nil {
		t.Error("second Start should fail while running")
	}
	if !w.IsRunning() {
		t.Error("worker should report running")
	}

	// The loop refreshes immediately on start.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(datasets.Sheet(sheets.OnRouteVehicles)) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(datasets.Sheet(sheets.OnRouteVehicles)) == 0 {
		t.Error("startup refresh did not populate the dataset store")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if w.IsRunning() {
		t.Error("worker should report stopped")
	}

	// Stopping again is a no-op.
	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("second Stop returned error: %v", err)
	}
}
