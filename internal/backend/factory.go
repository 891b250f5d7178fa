package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fleetboard/internal/sheets"
	"fleetboard/internal/sheets/csvexport"
	"fleetboard/internal/sheets/google"
	"fleetboard/internal/sheets/memory"
)

// New constructs the sheet fetcher described by cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (sheets.Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case CSVExport:
		logger.Info("using CSV export backend", "spreadsheet_id", cfg.SpreadsheetID)
		return csvexport.New(cfg.SpreadsheetID, cfg.GIDOverrides), nil

	case SheetsAPI:
		logger.Info("using Sheets API backend", "spreadsheet_id", cfg.SpreadsheetID)
		client, err := google.NewFromEnv(ctx, cfg.SpreadsheetID, cfg.TitleOverrides)
		if err != nil {
			return nil, fmt.Errorf("create sheets API backend: %w", err)
		}
		return client, nil

	case Memory:
		logger.Info("using memory backend", "fixture_dir", cfg.FixtureDir)
		store, err := memory.NewFromFiles(cfg.FixtureDir)
		if err != nil {
			return nil, fmt.Errorf("create memory backend: %w", err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
}
