package transform

import (
	"strings"

	"fleetboard/internal/core"
	"fleetboard/internal/csvdata"
)

// wideZones handles sheets with one column per zone ("Zone 1", "Zone 2",
// ...). Each zone column yields one record per row. Zero counts are kept:
// a reported zero is data, unlike an absent cell in the summed shapes.
func wideZones(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, hasDate := findHeader(table.Headers, "Date")

	for i, row := range table.Rows {
		date := ""
		if hasDate {
			date = strings.TrimSpace(row[dateHeader])
		}
		if date == "" {
			out.skip(i, "missing date")
			continue
		}
		date = core.NormalizeDate(date)

		for _, h := range table.Headers {
			if !strings.HasPrefix(h, "Zone ") {
				continue
			}
			zone := strings.TrimSpace(strings.TrimPrefix(h, "Zone "))
			count := parseIntDefault(row[h], 0)
			out.Records = append(out.Records, core.Record{
				Date:  date,
				Zone:  zone,
				Count: float64(count),
			})
		}
	}
	return out
}

// multiColumnSum handles sheets with a Zone column and several numeric
// columns. Rows sharing (zone, date) merge; all numeric columns besides
// Date and Zone are summed into Count. Groups summing to zero are dropped.
func multiColumnSum(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")

	groups := make(map[string]*core.Record)
	var order []string

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}
		date = core.NormalizeDate(date)

		var sum float64
		for _, h := range table.Headers {
			if h == dateHeader || h == zoneHeader {
				continue
			}
			if v, ok := parseNum(row[h]); ok {
				sum += v
			}
		}

		key := groupKey(zone, date)
		rec, ok := groups[key]
		if !ok {
			rec = &core.Record{Date: date, Zone: zone}
			groups[key] = rec
			order = append(order, key)
		}
		rec.Count += sum
	}

	for _, key := range order {
		rec := groups[key]
		if rec.Count == 0 {
			continue
		}
		out.Records = append(out.Records, *rec)
	}
	return out
}

// tripCount handles the trips sheet: three dedicated columns count vehicles
// that completed 0, 1 or 2 trips. Count is their sum; rows totaling zero
// are dropped.
func tripCount(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	trip0Header, _ := findHeader(table.Headers, "0 Trips", "Zero Trips")
	trip1Header, _ := findHeader(table.Headers, "1 Trip", "One Trip")
	trip2Header, _ := findHeader(table.Headers, "2 Trips", "Two Trips")

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}

		t0 := parseIntDefault(row[trip0Header], 0)
		t1 := parseIntDefault(row[trip1Header], 0)
		t2 := parseIntDefault(row[trip2Header], 0)
		total := t0 + t1 + t2
		if total == 0 {
			out.skip(i, "no trip counts")
			continue
		}

		out.Records = append(out.Records, core.Record{
			Date:          core.NormalizeDate(date),
			Zone:          zone,
			Count:         float64(total),
			HasTripCounts: true,
			TripCount0:    t0,
			TripCount1:    t1,
			TripCount2:    t2,
		})
	}
	return out
}

// parsePercent strips a trailing percent sign and parses the rest.
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return parseNum(s)
}

// percentage handles the glitch-percentage sheet. Software % takes
// precedence over Actual % when both parse; Count mirrors the chosen value
// so the record shape stays uniform. Later rows for the same (zone, date)
// overwrite earlier ones.
func percentage(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	softwareHeader, _ := findHeader(table.Headers, "Software %", "Software Percentage")
	actualHeader, _ := findHeader(table.Headers, "Actual %", "Actual Percentage")
	remarksHeader, _ := findHeader(table.Headers, "Remarks")

	groups := make(map[string]*core.Record)
	var order []string

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}
		date = core.NormalizeDate(date)

		software, hasSoftware := parsePercent(row[softwareHeader])
		actual, hasActual := parsePercent(row[actualHeader])

		chosen := actual
		if hasSoftware {
			chosen = software
		}
		if (!hasSoftware && !hasActual) || chosen <= 0 {
			out.skip(i, "no positive percentage")
			continue
		}

		rec := &core.Record{
			Date:       date,
			Zone:       zone,
			Count:      chosen,
			Percentage: chosen,
			Remarks:    strings.TrimSpace(row[remarksHeader]),
		}
		if hasSoftware {
			rec.SoftwarePercentage = software
		}
		if hasActual {
			rec.ActualPercentage = actual
		}

		key := groupKey(zone, date)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		// Latest row wins for a repeated (zone, date).
		groups[key] = rec
	}

	for _, key := range order {
		out.Records = append(out.Records, *groups[key])
	}
	return out
}

// defaultTransform is the fallback shape: Date and Zone required, Count
// taken from a Count column or defaulted to 1.
func defaultTransform(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	countHeader, hasCount := findHeader(table.Headers, "Count")

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}

		count := 1.0
		if hasCount {
			if v, ok := parseNum(row[countHeader]); ok {
				count = v
			}
		}

		out.Records = append(out.Records, core.Record{
			Date:  core.NormalizeDate(date),
			Zone:  zone,
			Count: count,
		})
	}
	return out
}
