// Package google fetches sheet tabs through the Sheets API using service
// account credentials. It is the authenticated alternative to the public
// CSV export backend for spreadsheets that are not published to the web.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "fleetboard/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads sheet tabs via the Sheets API and renders them as CSV text
// so the rest of the pipeline sees the same shape as the export backend.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Maps canonical sheet name to the tab title in the spreadsheet.
	// Defaults to the canonical name itself.
	titles map[string]string
}

var _ ports.Fetcher = (*Client)(nil)

// NewFromEnv creates a Sheets API client using service account credentials.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID string, titleOverrides map[string]string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	titles := make(map[string]string, len(ports.DefaultGIDs))
	for _, name := range ports.Names() {
		titles[name] = name
	}
	for name, title := range titleOverrides {
		titles[name] = title
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		titles:        titles,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Fetch reads the full value range of the named sheet's tab and renders
// it as CSV text.
func (c *Client) Fetch(ctx context.Context, sheetName string) (string, error) {
	title, ok := c.titles[sheetName]
	if !ok {
		return "", fmt.Errorf("unknown sheet: %s", sheetName)
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", title, err)
	}
	return valuesToCSV(resp.Values), nil
}

// valuesToCSV renders an API value grid as CSV text. Cells containing a
// comma, quote or newline are quoted; embedded quotes are dropped because
// the downstream parser has no escape form.
func valuesToCSV(values [][]interface{}) string {
	var b strings.Builder
	for i, row := range values {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvCell(fmt.Sprintf("%v", cell)))
		}
	}
	return b.String()
}

func csvCell(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	if strings.ContainsAny(s, ",\n") {
		return `"` + s + `"`
	}
	return s
}
