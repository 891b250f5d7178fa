// Package storage persists dataset snapshots in SQLite so the service can
// serve the last known data across restarts and spreadsheet outages.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fleetboard/internal/core"
	"fleetboard/internal/sheets"

	_ "modernc.org/sqlite"
)

// SnapshotRepository stores per-sheet record snapshots.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(dbPath string) (*SnapshotRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot stores one sheet's records as a JSON payload.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, sheetName string, records []core.Record, fetchedAt time.Time) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (sheet_name, fetched_at, record_count, payload) VALUES (?, ?, ?, ?)`,
		sheetName, fetchedAt.UTC(), len(records), string(payload))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// SaveDataset snapshots every sheet of an assembled dataset at once.
func (r *SnapshotRepository) SaveDataset(ctx context.Context, ds core.Dataset, fetchedAt time.Time) error {
	for name, records := range ds {
		if err := r.SaveSnapshot(ctx, name, records, fetchedAt); err != nil {
			return err
		}
	}
	return nil
}

// LatestSnapshot returns the newest stored records for a sheet, or nil
// when none exist.
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context, sheetName string) ([]core.Record, time.Time, error) {
	var payload string
	var fetchedAt time.Time

	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM snapshots WHERE sheet_name = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		sheetName).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query latest snapshot: %w", err)
	}

	var records []core.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal snapshot payload: %w", err)
	}
	return records, fetchedAt, nil
}

// LatestDataset reassembles the most recent snapshot of every registered
// sheet. Sheets with no snapshot come back as empty slices.
func (r *SnapshotRepository) LatestDataset(ctx context.Context) (core.Dataset, error) {
	ds := make(core.Dataset, len(sheets.Names()))
	for _, name := range sheets.Names() {
		records, _, err := r.LatestSnapshot(ctx, name)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []core.Record{}
		}
		ds[name] = records
	}
	return ds, nil
}

// PruneSnapshots keeps the newest keep snapshots per sheet and deletes the
// rest.
func (r *SnapshotRepository) PruneSnapshots(ctx context.Context, keep int) error {
	if keep < 1 {
		return fmt.Errorf("keep must be positive, got %d", keep)
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY sheet_name ORDER BY fetched_at DESC, id DESC
				) AS rn
				FROM snapshots
			) WHERE rn > ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
