// Package backend selects and constructs the sheet data source.
package backend

import "fmt"

// Type identifies which fetcher implementation to use.
type Type string

const (
	// CSVExport fetches through the public CSV export endpoint of a
	// published spreadsheet. No credentials required.
	CSVExport Type = "csv"
	// SheetsAPI fetches through the Sheets API with service account
	// credentials.
	SheetsAPI Type = "api"
	// Memory serves local CSV fixtures, for development and tests.
	Memory Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case CSVExport, SheetsAPI, Memory:
		return true
	}
	return false
}

// Config carries everything a fetcher constructor may need.
type Config struct {
	Type Type

	SpreadsheetID  string
	GIDOverrides   map[string]string
	TitleOverrides map[string]string

	// Memory backend only.
	FixtureDir string
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case CSVExport, SheetsAPI:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet ID is required for %s backend", c.Type)
		}
	case Memory:
		if c.FixtureDir == "" {
			return fmt.Errorf("fixture directory is required for memory backend")
		}
	}
	return nil
}
