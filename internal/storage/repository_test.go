package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fleetboard/internal/core"
	"fleetboard/internal/sheets"
)

func newTestRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	repo, err := NewSnapshotRepository(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	records := []core.Record{
		{Date: "2024-03-01", Zone: "1", Count: 10},
		{Date: "2024-03-01", Zone: "2", Count: 4, IssueBreakdown: map[string]int{"Engine": 2}},
	}
	fetchedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.SaveSnapshot(ctx, sheets.OnRouteVehicles, records, fetchedAt); err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}

	got, at, err := repo.LatestSnapshot(ctx, sheets.OnRouteVehicles)
	if err != nil {
		t.Fatalf("LatestSnapshot returned error: %v", err)
	}
	if len(got) != 2 || got[0].Count != 10 {
		t.Errorf("records = %+v", got)
	}
	if got[1].IssueBreakdown["Engine"] != 2 {
		t.Errorf("issue breakdown lost: %+v", got[1])
	}
	if !at.Equal(fetchedAt) {
		t.Errorf("fetchedAt = %v, want %v", at, fetchedAt)
	}
}

func TestLatestSnapshotPicksNewest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	older := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

	if err := repo.SaveSnapshot(ctx, sheets.FuelStation, []core.Record{{Zone: "1", Count: 1}}, older); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveSnapshot(ctx, sheets.FuelStation, []core.Record{{Zone: "1", Count: 9}}, newer); err != nil {
		t.Fatal(err)
	}

	got, _, err := repo.LatestSnapshot(ctx, sheets.FuelStation)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Count != 9 {
		t.Errorf("latest = %+v, want newer snapshot", got)
	}
}

func TestLatestSnapshotEmpty(t *testing.T) {
	repo := newTestRepo(t)

	got, at, err := repo.LatestSnapshot(context.Background(), sheets.VehicleNumbers)
	if err != nil {
		t.Fatalf("LatestSnapshot returned error: %v", err)
	}
	if got != nil || !at.IsZero() {
		t.Errorf("got %v at %v, want nil and zero time", got, at)
	}
}

func TestLatestDataset(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	ds := core.Dataset{
		sheets.OnRouteVehicles: {{Date: "2024-03-01", Zone: "1", Count: 3}},
	}
	if err := repo.SaveDataset(ctx, ds, time.Now().UTC()); err != nil {
		t.Fatalf("SaveDataset returned error: %v", err)
	}

	got, err := repo.LatestDataset(ctx)
	if err != nil {
		t.Fatalf("LatestDataset returned error: %v", err)
	}
	if len(got) != len(sheets.Names()) {
		t.Errorf("dataset has %d sheets, want %d", len(got), len(sheets.Names()))
	}
	if len(got[sheets.OnRouteVehicles]) != 1 {
		t.Errorf("onRouteVehicles = %+v", got[sheets.OnRouteVehicles])
	}
	if got[sheets.FuelStation] == nil {
		t.Error("unsaved sheet should be an empty slice, not nil")
	}
}

func TestPruneSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		if err := repo.SaveSnapshot(ctx, sheets.OnRouteVehicles, []core.Record{{Count: float64(i)}}, at); err != nil {
			t.Fatal(err)
		}
	}

	if err := repo.PruneSnapshots(ctx, 2); err != nil {
		t.Fatalf("PruneSnapshots returned error: %v", err)
	}

	var remaining int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 2 {
		t.Errorf("remaining snapshots = %d, want 2", remaining)
	}

	got, _, err := repo.LatestSnapshot(ctx, sheets.OnRouteVehicles)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Count != 4 {
		t.Errorf("latest after prune = %+v, want newest", got)
	}
}

func TestPruneSnapshotsRejectsNonPositiveKeep(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.PruneSnapshots(context.Background(), 0); err == nil {
		t.Error("expected error for keep=0")
	}
}
