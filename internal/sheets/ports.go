// Package sheets defines the fetcher port for sheet data sources and the
// registry of known fleet sheets.
package sheets

import "context"

// Fetcher retrieves the raw CSV text of a named sheet.
type Fetcher interface {
	Fetch(ctx context.Context, sheetName string) (string, error)
}
