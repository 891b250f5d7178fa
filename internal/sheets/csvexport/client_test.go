package csvexport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetboard/internal/sheets"
)

func TestFetch(t *testing.T) {
	const csvBody = "Date,Zone,Count\n2024-03-01,1,10\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "csv" {
			t.Errorf("missing format=csv in query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("gid") != "0" {
			t.Errorf("gid = %q, want %q", r.URL.Query().Get("gid"), "0")
		}
		w.Write([]byte(csvBody))
	}))
	defer server.Close()

	client := New("sheet-id", nil)
	client.baseURL = server.URL

	got, err := client.Fetch(context.Background(), sheets.OnRouteVehicles)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got != csvBody {
		t.Errorf("got %q, want %q", got, csvBody)
	}
}

func TestFetchGidOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("gid") != "999" {
			t.Errorf("gid = %q, want override %q", r.URL.Query().Get("gid"), "999")
		}
		w.Write([]byte("Date\n"))
	}))
	defer server.Close()

	client := New("sheet-id", map[string]string{sheets.FuelStation: "999"})
	client.baseURL = server.URL

	if _, err := client.Fetch(context.Background(), sheets.FuelStation); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
}

func TestFetchUnknownSheet(t *testing.T) {
	client := New("sheet-id", nil)
	_, err := client.Fetch(context.Background(), "nope")
	if !errors.Is(err, ErrUnknownSheet) {
		t.Errorf("got %v, want ErrUnknownSheet", err)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New("sheet-id", nil)
	client.baseURL = server.URL

	if _, err := client.Fetch(context.Background(), sheets.OnRouteVehicles); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}
