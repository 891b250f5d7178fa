// Package chart turns filtered zone-date records into the labels+datasets
// structure consumed by chart widgets.
package chart

import (
	"sort"
	"strconv"

	"fleetboard/internal/core"
	"fleetboard/internal/sheets"
)

var defaultColors = []string{
	"#36A2EB",
	"#FF6384",
	"#4BC0C0",
	"#FF9F40",
	"#9966FF",
	"#FFCD56",
	"#C9CBCF",
	"#2ECC71",
}

// Point is one labeled value with its remark, used by percentage charts.
type Point struct {
	X       string  `json:"x"`
	Y       float64 `json:"y"`
	Remarks string  `json:"remarks,omitempty"`
}

// Dataset is one chart series.
type Dataset struct {
	Label          string                   `json:"label"`
	Data           []float64                `json:"data,omitempty"`
	Points         []Point                  `json:"points,omitempty"`
	Color          string                   `json:"color"`
	IssueBreakdown map[string]int           `json:"issueBreakdown,omitempty"`
	Details        []core.Detail            `json:"details,omitempty"`
	DetailsByLabel map[string][]core.Detail `json:"detailsByLabel,omitempty"`
}

// ChartData is the contract surface handed to chart-rendering components.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Build groups records by label and sums the selected value field into one
// series per chart. The percentage sheet gets point datasets (one or two
// series); the workshop sheet groups by ward with per-ward detail lists;
// the trips sheet can narrow to a single trip-count sub-field.
func Build(records []core.Record, valueField, labelField, sheetName, tripFilter string) ChartData {
	if sheetName == sheets.GlitchPercentage {
		return buildPercentage(records)
	}
	if sheetName == sheets.SphereWorkshopExit {
		labelField = "Ward"
	}

	sums := make(map[string]float64)
	issues := make(map[string]int)
	var details []core.Detail
	detailsByLabel := make(map[string][]core.Detail)

	for _, rec := range records {
		label := recordLabel(rec, labelField)
		if label == "" {
			continue
		}
		if labelField != "Ward" && labelField != "Date" {
			if n, ok := rec.ZoneNumber(); ok && n <= 0 {
				continue
			}
		}

		value := recordValue(rec, valueField, sheetName, tripFilter)
		sums[label] += value

		for issue, n := range rec.IssueBreakdown {
			issues[issue] += n
		}
		if sheetName == sheets.SphereWorkshopExit {
			detailsByLabel[label] = append(detailsByLabel[label], core.Detail{
				Vehicle: rec.PermanentVehicle,
				Time:    rec.WorkshopDeparture,
				Status:  rec.SpareVehicle,
			})
		} else {
			details = append(details, rec.Details...)
		}
	}

	labels := sortLabels(sums)
	data := make([]float64, len(labels))
	for i, label := range labels {
		data[i] = sums[label]
	}

	ds := Dataset{
		Label: datasetLabel(sheetName),
		Data:  data,
		Color: defaultColors[0],
	}
	if len(issues) > 0 {
		ds.IssueBreakdown = issues
	}
	if len(details) > 0 {
		ds.Details = details
	}
	if len(detailsByLabel) > 0 {
		ds.DetailsByLabel = detailsByLabel
	}

	return ChartData{Labels: labels, Datasets: []Dataset{ds}}
}

// buildPercentage emits point datasets. When both software and actual
// percentages appear in the filtered set it produces two series, else one
// from the record's chosen percentage. Later records overwrite earlier
// ones for a repeated label.
func buildPercentage(records []core.Record) ChartData {
	software := make(map[string]Point)
	actual := make(map[string]Point)
	chosen := make(map[string]Point)

	for _, rec := range records {
		if n, ok := rec.ZoneNumber(); ok && n <= 0 {
			continue
		}
		label := rec.Zone
		if rec.SoftwarePercentage > 0 {
			software[label] = Point{X: label, Y: rec.SoftwarePercentage, Remarks: rec.Remarks}
		}
		if rec.ActualPercentage > 0 {
			actual[label] = Point{X: label, Y: rec.ActualPercentage, Remarks: rec.Remarks}
		}
		if rec.Percentage > 0 {
			chosen[label] = Point{X: label, Y: rec.Percentage, Remarks: rec.Remarks}
		}
	}

	if len(software) > 0 && len(actual) > 0 {
		labels := sortLabelKeys(unionKeys(software, actual))
		return ChartData{
			Labels: labels,
			Datasets: []Dataset{
				{Label: "Software %", Points: pointsFor(labels, software), Color: defaultColors[0]},
				{Label: "Actual %", Points: pointsFor(labels, actual), Color: defaultColors[1]},
			},
		}
	}

	labels := make([]string, 0, len(chosen))
	for label := range chosen {
		labels = append(labels, label)
	}
	labels = sortLabelKeys(labels)
	return ChartData{
		Labels: labels,
		Datasets: []Dataset{
			{Label: datasetLabel(sheets.GlitchPercentage), Points: pointsFor(labels, chosen), Color: defaultColors[0]},
		},
	}
}

func pointsFor(labels []string, points map[string]Point) []Point {
	out := make([]Point, 0, len(labels))
	for _, label := range labels {
		if p, ok := points[label]; ok {
			out = append(out, p)
		}
	}
	return out
}

func unionKeys(maps ...map[string]Point) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func recordValue(rec core.Record, valueField, sheetName, tripFilter string) float64 {
	if sheetName == sheets.LessThan3Trips && rec.HasTripCounts {
		switch tripFilter {
		case "0":
			return float64(rec.TripCount0)
		case "1":
			return float64(rec.TripCount1)
		case "2":
			return float64(rec.TripCount2)
		}
	}
	switch valueField {
	case "Percentage":
		return rec.Percentage
	case "TotalVehicles":
		return float64(rec.TotalVehicles)
	default:
		return rec.Count
	}
}

func recordLabel(rec core.Record, labelField string) string {
	switch labelField {
	case "Ward":
		return rec.Ward
	case "Date":
		return rec.Date
	default:
		return rec.Zone
	}
}

// sortLabels sorts map keys numerically when every key parses as an
// integer, else lexicographically.
func sortLabels(m map[string]float64) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	return sortLabelKeys(labels)
}

func sortLabelKeys(labels []string) []string {
	allInts := true
	for _, label := range labels {
		if _, err := strconv.Atoi(label); err != nil {
			allInts = false
			break
		}
	}
	if allInts {
		sort.Slice(labels, func(i, j int) bool {
			a, _ := strconv.Atoi(labels[i])
			b, _ := strconv.Atoi(labels[j])
			return a < b
		})
	} else {
		sort.Strings(labels)
	}
	return labels
}

var sheetTitles = map[string]string{
	sheets.OnRouteVehicles:    "On-Route Vehicles",
	sheets.OnBoardAfter3PM:    "On Board After 3 PM",
	sheets.LessThan3Trips:     "Vehicles With Less Than 3 Trips",
	sheets.GlitchPercentage:   "Glitch Percentage",
	sheets.IssuesPost0710:     "Issues After 07:10",
	sheets.FuelStation:        "Fuel Station Visits",
	sheets.Post06AMOpenIssues: "Open Issues After 06:00 AM",
	sheets.VehicleBreakdown:   "Vehicle Breakdowns",
	sheets.VehicleNumbers:     "Vehicle Numbers",
	sheets.SphereWorkshopExit: "Workshop Departures",
}

// Title returns the human-readable chart title of a sheet.
func Title(sheetName string) string {
	if title, ok := sheetTitles[sheetName]; ok {
		return title
	}
	return sheetName
}

func datasetLabel(sheetName string) string {
	return Title(sheetName)
}
