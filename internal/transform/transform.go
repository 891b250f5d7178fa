// Package transform converts parsed sheet tables into canonical zone-date
// records. Each sheet shape has its own transformer function; Dispatch picks
// one from the sheet name plus a look at the headers.
package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fleetboard/internal/core"
	"fleetboard/internal/csvdata"
	"fleetboard/internal/sheets"
)

// Func is a pure transformer from a parsed table to zone-date records.
type Func func(csvdata.Table) Outcome

// Outcome carries the produced records plus the rows that were skipped and
// why. Callers that only want the records read Records; the skip list is
// for logging.
type Outcome struct {
	Records []core.Record
	Skips   []Skip
}

// Skip records one dropped input row.
type Skip struct {
	Row    int
	Reason string
}

func (o *Outcome) skip(row int, reason string) {
	o.Skips = append(o.Skips, Skip{Row: row, Reason: reason})
}

var zonePattern = regexp.MustCompile(`(?i)zone\s*(-?\d+)`)

// extractZone pulls a signed zone number out of strings like
// "Zone 1 - Kila Maidan" or "Zone -1". A bare integer is accepted too.
func extractZone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if m := zonePattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if _, err := strconv.Atoi(s); err == nil && s != "" {
		return s, true
	}
	return "", false
}

// parseNum parses a cell as a float, stripping stray spaces. Returns 0 and
// false for blanks and non-numeric text.
func parseNum(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// findHeader returns the first header equal to any of the candidates,
// compared case-insensitively after trimming.
func findHeader(headers []string, candidates ...string) (string, bool) {
	for _, h := range headers {
		for _, c := range candidates {
			if strings.EqualFold(strings.TrimSpace(h), c) {
				return h, true
			}
		}
	}
	return "", false
}

func hasHeader(headers []string, name string) bool {
	_, ok := findHeader(headers, name)
	return ok
}

func anyHeaderPrefixed(headers []string, prefix string) bool {
	for _, h := range headers {
		if strings.HasPrefix(h, prefix) {
			return true
		}
	}
	return false
}

// issueColumns are the five issue-type columns summed by the late-vehicle
// sheets.
var issueColumns = []string{
	"Driver Issue",
	"Helper Issue",
	"Breakdown Issue",
	"Workshop Issue",
	"Other Issue",
}

func hasIssueColumns(headers []string) bool {
	for _, col := range issueColumns {
		if hasHeader(headers, col) {
			return true
		}
	}
	return false
}

// Dispatch selects the transformer for a sheet. Sheet identity decides
// first; header shape disambiguates where sheets can structurally resemble
// each other. The priority order here is deliberate and must not be
// reordered.
func Dispatch(sheetName string, headers []string) (string, Func) {
	switch {
	case sheetName == sheets.VehicleBreakdown && hasHeader(headers, "Issue") && hasHeader(headers, "Vehicle No."):
		return "vehicleBreakdown", vehicleBreakdown
	case anyHeaderPrefixed(headers, "Zone "):
		return "wideZones", wideZones
	case sheetName == sheets.GlitchPercentage:
		return "percentage", percentage
	case sheetName == sheets.LessThan3Trips:
		return "tripCount", tripCount
	case sheetName == sheets.FuelStation:
		return "fuelStation", fuelStation
	case sheetName == sheets.VehicleNumbers:
		return "vehicleNumbers", vehicleNumbers
	case sheetName == sheets.SphereWorkshopExit:
		return "workshop", workshop
	case sheetName == sheets.IssuesPost0710 && hasIssueColumns(headers):
		return "lateIssues", lateIssues("arrived at first point after 07:10")
	case sheetName == sheets.Post06AMOpenIssues && hasIssueColumns(headers):
		return "lateIssues", lateIssues("left zone parking after 06:00 AM")
	case hasHeader(headers, "Zone"):
		return "multiColumnSum", multiColumnSum
	default:
		return "default", defaultTransform
	}
}

// Apply runs the dispatched transformer for a sheet on a parsed table and
// returns the shape name alongside the outcome.
func Apply(sheetName string, table csvdata.Table) (string, Outcome) {
	shape, fn := Dispatch(sheetName, table.Headers)
	return shape, fn(table)
}

func groupKey(zone, date string) string {
	return fmt.Sprintf("%s|%s", zone, date)
}
