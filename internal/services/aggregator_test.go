package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"fleetboard/internal/core"
	"fleetboard/internal/sheets"
	"fleetboard/internal/sheets/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchAll(t *testing.T) {
	store := memory.New()
	store.Set(sheets.OnRouteVehicles, "Date,Zone,Count\n2024-03-01,1,10\n")
	store.Set(sheets.LessThan3Trips, "Date,Zone,0 Trips,1 Trip,2 Trips\n2024-03-01,Zone 2,1,2,0\n")

	agg := NewAggregator(store, discardLogger())
	ds := agg.FetchAll(context.Background())

	if len(ds) != len(sheets.Names()) {
		t.Fatalf("dataset has %d entries, want %d", len(ds), len(sheets.Names()))
	}

	onRoute := ds[sheets.OnRouteVehicles]
	if len(onRoute) != 1 || onRoute[0].Count != 10 {
		t.Errorf("onRouteVehicles = %+v", onRoute)
	}

	trips := ds[sheets.LessThan3Trips]
	if len(trips) != 1 || !trips[0].HasTripCounts {
		t.Errorf("lessThan3Trips = %+v", trips)
	}

	// Sheets with no fixture still produce an empty, non-nil slice.
	if ds[sheets.FuelStation] == nil {
		t.Error("missing sheet should be an empty slice, not nil")
	}
}

func TestFetchAllContainsFailures(t *testing.T) {
	store := memory.New()
	store.Set(sheets.OnRouteVehicles, "Date,Zone,Count\n2024-03-01,1,10\n")
	store.SetError(sheets.VehicleBreakdown, errors.New("boom"))

	agg := NewAggregator(store, discardLogger())
	ds := agg.FetchAll(context.Background())

	if got := ds[sheets.VehicleBreakdown]; got == nil || len(got) != 0 {
		t.Errorf("failed sheet = %v, want empty slice", got)
	}
	if len(ds[sheets.OnRouteVehicles]) != 1 {
		t.Error("healthy sheet should be unaffected by another sheet's failure")
	}
}

func TestUniqueZones(t *testing.T) {
	ds := core.Dataset{
		"a": {
			{Zone: "3"}, {Zone: "1"}, {Zone: "10"},
		},
		"b": {
			{Zone: "3"}, {Zone: "0"}, {Zone: "-1"}, {Zone: "not a zone"},
		},
	}

	got := UniqueZones(ds)
	want := []string{"1", "3", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v (numeric sort, non-positive excluded)", got, want)
	}
}

func TestUniqueDates(t *testing.T) {
	ds := core.Dataset{
		"a": {
			{Date: "2024-03-02"}, {Date: "01/03/2024"},
		},
		"b": {
			{Date: "2024-03-02"},
		},
	}

	got := UniqueDates(ds)
	want := []string{"2024-03-01", "2024-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDatasetStore(t *testing.T) {
	store := NewDatasetStore()

	ds, updatedAt := store.Snapshot()
	if len(ds) != 0 || !updatedAt.IsZero() {
		t.Errorf("fresh store = %v at %v", ds, updatedAt)
	}

	store.Replace(core.Dataset{"a": {{Zone: "1", Count: 2}}})

	if got := store.Sheet("a"); len(got) != 1 {
		t.Errorf("sheet a = %v", got)
	}
	_, updatedAt = store.Snapshot()
	if updatedAt.IsZero() {
		t.Error("updatedAt not set after Replace")
	}
}
