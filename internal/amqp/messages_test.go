package amqp

import (
	"testing"
	"time"
)

func TestRefreshMessageRoundTrip(t *testing.T) {
	msg := NewRefreshMessage("manual", map[string]int{"onRouteVehicles": 12, "fuelStation": 3})

	if msg.RefreshedAt.IsZero() {
		t.Fatal("RefreshedAt not set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON returned error: %v", err)
	}

	got, err := RefreshMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RefreshMessageFromJSON returned error: %v", err)
	}
	if got.Trigger != "manual" {
		t.Errorf("trigger = %q, want manual", got.Trigger)
	}
	if got.Counts["onRouteVehicles"] != 12 || got.Counts["fuelStation"] != 3 {
		t.Errorf("counts = %v", got.Counts)
	}
	if !got.RefreshedAt.Truncate(time.Second).Equal(msg.RefreshedAt.Truncate(time.Second)) {
		t.Errorf("refreshedAt = %v, want %v", got.RefreshedAt, msg.RefreshedAt)
	}
}

func TestRefreshMessageFromInvalidJSON(t *testing.T) {
	if _, err := RefreshMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
