// Package csvexport fetches sheet tabs through the public CSV export
// endpoint of a published Google Sheets document. No credentials are
// needed, only the spreadsheet ID and per-tab gids.
package csvexport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleetboard/internal/sheets"
)

// ErrUnknownSheet is returned when a sheet name is not in the registry.
var ErrUnknownSheet = errors.New("unknown sheet")

// Client fetches sheets via the CSV export endpoint.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	gids          map[string]string
}

// New creates a Client for the given spreadsheet. Entries in overrides
// replace the default gid for that sheet name.
func New(spreadsheetID string, overrides map[string]string) *Client {
	gids := make(map[string]string, len(sheets.DefaultGIDs))
	for name, gid := range sheets.DefaultGIDs {
		gids[name] = gid
	}
	for name, gid := range overrides {
		gids[name] = gid
	}
	return &Client{
		httpClient:    newPooledHTTPClient(),
		baseURL:       "https://docs.google.com",
		spreadsheetID: spreadsheetID,
		gids:          gids,
	}
}

func newPooledHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
	}
	// No client-level timeout: callers bound requests with their context.
	return &http.Client{Transport: transport}
}

// Fetch downloads the CSV export of the named sheet.
func (c *Client) Fetch(ctx context.Context, sheetName string) (string, error) {
	gid, ok := c.gids[sheetName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSheet, sheetName)
	}

	url := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s", c.baseURL, c.spreadsheetID, gid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", sheetName, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", sheetName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", sheetName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", sheetName, err)
	}
	return string(body), nil
}

var _ sheets.Fetcher = (*Client)(nil)
