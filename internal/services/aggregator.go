// Package services holds the aggregation orchestrator and the in-memory
// dataset it feeds.
package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"fleetboard/internal/core"
	"fleetboard/internal/csvdata"
	"fleetboard/internal/sheets"
	"fleetboard/internal/transform"
)

// Aggregator fans the fetch+parse+transform pipeline out across all known
// sheets and assembles the dataset map.
type Aggregator struct {
	fetcher sheets.Fetcher
	logger  *slog.Logger
}

func NewAggregator(fetcher sheets.Fetcher, logger *slog.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, logger: logger}
}

// FetchAll fetches and transforms every registered sheet concurrently.
// A failing sheet contributes an empty slice instead of failing the whole
// call, so callers always get a complete map to render from.
func (a *Aggregator) FetchAll(ctx context.Context) core.Dataset {
	dataset := make(core.Dataset, len(sheets.Names()))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range sheets.Names() {
		g.Go(func() error {
			records, err := a.fetchSheet(ctx, name)
			if err != nil {
				a.logger.Warn("sheet fetch failed, serving empty", "sheet", name, "error", err)
				records = []core.Record{}
			}
			mu.Lock()
			dataset[name] = records
			mu.Unlock()
			return nil
		})
	}
	// Sheet failures are logged and contained above, so there is nothing
	// left to report here.
	_ = g.Wait()

	return dataset
}

func (a *Aggregator) fetchSheet(ctx context.Context, name string) ([]core.Record, error) {
	text, err := a.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	table := csvdata.Parse(text)
	shape, out := transform.Apply(name, table)

	if len(out.Skips) > 0 {
		a.logger.Debug("rows skipped during transform",
			"sheet", name, "shape", shape, "skipped", len(out.Skips))
	}
	a.logger.Debug("sheet transformed",
		"sheet", name, "shape", shape, "rows", len(table.Rows), "records", len(out.Records))

	if out.Records == nil {
		return []core.Record{}, nil
	}
	return out.Records, nil
}

// UniqueZones returns every zone appearing in the dataset whose numeric
// value is positive, sorted ascending numerically.
func UniqueZones(ds core.Dataset) []string {
	seen := make(map[int]bool)
	for _, records := range ds {
		for _, rec := range records {
			if n, ok := rec.ZoneNumber(); ok && n > 0 {
				seen[n] = true
			}
		}
	}

	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	zones := make([]string, len(nums))
	for i, n := range nums {
		zones[i] = strconv.Itoa(n)
	}
	return zones
}

// UniqueDates returns every normalized date in the dataset, sorted
// ascending. Normalized ISO dates sort correctly as strings.
func UniqueDates(ds core.Dataset) []string {
	seen := make(map[string]bool)
	for _, records := range ds {
		for _, rec := range records {
			if d := core.NormalizeDate(rec.Date); d != "" {
				seen[d] = true
			}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
