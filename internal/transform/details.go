package transform

import (
	"strings"

	"fleetboard/internal/core"
	"fleetboard/internal/csvdata"
)

// vehicleBreakdown groups breakdown rows by (zone, date), counting one per
// row, building the per-issue histogram and keeping a detail entry for
// every vehicle.
func vehicleBreakdown(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	issueHeader, _ := findHeader(table.Headers, "Issue")
	vehicleHeader, _ := findHeader(table.Headers, "Vehicle No.")
	timeHeader, _ := findHeader(table.Headers, "Breakdown Time")
	statusHeader, _ := findHeader(table.Headers, "Spare Status")
	spareTimeHeader, _ := findHeader(table.Headers, "Spare Time")

	groups := make(map[string]*core.Record)
	var order []string

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		issue := strings.TrimSpace(row[issueHeader])
		if date == "" || !zoneOK || issue == "" {
			out.skip(i, "missing date, zone or issue")
			continue
		}
		date = core.NormalizeDate(date)

		key := groupKey(zone, date)
		rec, ok := groups[key]
		if !ok {
			rec = &core.Record{
				Date:           date,
				Zone:           zone,
				IssueBreakdown: make(map[string]int),
			}
			groups[key] = rec
			order = append(order, key)
		}

		rec.Count++
		rec.IssueBreakdown[issue]++
		rec.Details = append(rec.Details, core.Detail{
			Vehicle: strings.TrimSpace(row[vehicleHeader]),
			Time:    strings.TrimSpace(row[timeHeader]),
			Issue:   issue,
			Status:  strings.TrimSpace(row[statusHeader]),
			Remarks: strings.TrimSpace(row[spareTimeHeader]),
		})
	}

	for _, key := range order {
		out.Records = append(out.Records, *groups[key])
	}
	return out
}

func splitTimes(s string) []string {
	var times []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			times = append(times, t)
		}
	}
	return times
}

// fuelStation expands the fuel-station sheet: each timestamp in the
// comma-separated times cell becomes a detail entry, with filler entries
// when the declared vehicle count exceeds the number of timestamps. Zone
// signs are normalized positive.
func fuelStation(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	timesHeader, _ := findHeader(table.Headers, "Fuel Station Times")
	countHeader, _ := findHeader(table.Headers, "Count of Vehicles")

	groups := make(map[string]*core.Record)
	var order []string

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}
		zone = strings.TrimPrefix(zone, "-")
		date = core.NormalizeDate(date)

		times := splitTimes(row[timesHeader])
		count := parseIntDefault(row[countHeader], 0)
		if count < len(times) {
			count = len(times)
		}
		if count == 0 {
			out.skip(i, "no visits recorded")
			continue
		}

		key := groupKey(zone, date)
		rec, ok := groups[key]
		if !ok {
			rec = &core.Record{Date: date, Zone: zone}
			groups[key] = rec
			order = append(order, key)
		}

		rec.Count += float64(count)
		for _, t := range times {
			rec.Details = append(rec.Details, core.Detail{
				Time:  t,
				Issue: "Fuel station visit",
			})
		}
		for n := len(times); n < count; n++ {
			rec.Details = append(rec.Details, core.Detail{
				Issue:   "Fuel station visit",
				Remarks: "time not recorded",
			})
		}
	}

	for _, key := range order {
		out.Records = append(out.Records, *groups[key])
	}
	return out
}

// lateIssues builds the transformer shared by the two late-vehicle sheets.
// The five issue-type columns sum into Count and the issue histogram; each
// counted unit gets a detail entry carrying the sheet's remark.
func lateIssues(remark string) Func {
	return func(table csvdata.Table) Outcome {
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

			key := groupKey(zone, date)
			rec, ok := groups[key]
			if !ok {
				rec = &core.Record{
					Date:           date,
					Zone:           zone,
					IssueBreakdown: make(map[string]int),
				}
				groups[key] = rec
				order = append(order, key)
			}

			for _, col := range issueColumns {
				header, ok := findHeader(table.Headers, col)
				if !ok {
					continue
				}
				n := parseIntDefault(row[header], 0)
				if n <= 0 {
					continue
				}
				rec.Count += float64(n)
				rec.IssueBreakdown[col] += n
				for u := 0; u < n; u++ {
					rec.Details = append(rec.Details, core.Detail{
						Issue:   col,
						Remarks: remark,
					})
				}
			}
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
}

// splitVehicleList splits a free-text vehicle list on "/" or ",",
// discarding blanks and the OPEN placeholder token.
func splitVehicleList(s string) []string {
	s = strings.ReplaceAll(s, "/", ",")
	var vehicles []string
	for _, part := range strings.Split(s, ",") {
		v := strings.TrimSpace(part)
		if v == "" || strings.EqualFold(v, "OPEN") {
			continue
		}
		vehicles = append(vehicles, v)
	}
	return vehicles
}

// vehicleNumbers parses the roster sheet: a delimited vehicle list per
// zone. Count and TotalVehicles both reflect the parsed list length,
// falling back to the sheet's own total column when the list is empty.
func vehicleNumbers(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	listHeader, _ := findHeader(table.Headers, "Vehicle Numbers", "Vehicle No.")
	totalHeader, _ := findHeader(table.Headers, "Total Vehicles")

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		if date == "" || !zoneOK {
			out.skip(i, "missing date or zone")
			continue
		}

		vehicles := splitVehicleList(row[listHeader])
		total := len(vehicles)
		if total == 0 {
			total = parseIntDefault(row[totalHeader], 0)
		}
		if total == 0 {
			out.skip(i, "no vehicles listed")
			continue
		}

		out.Records = append(out.Records, core.Record{
			Date:           core.NormalizeDate(date),
			Zone:           zone,
			Count:          float64(total),
			VehicleNumbers: vehicles,
			TotalVehicles:  total,
		})
	}
	return out
}

// workshop passes workshop-exit rows through one-to-one. No grouping: each
// departure is its own record.
func workshop(table csvdata.Table) Outcome {
	var out Outcome
	dateHeader, _ := findHeader(table.Headers, "Date")
	zoneHeader, _ := findHeader(table.Headers, "Zone")
	wardHeader, _ := findHeader(table.Headers, "Ward")
	permanentHeader, _ := findHeader(table.Headers, "Permanent Vehicle Number")
	spareHeader, _ := findHeader(table.Headers, "Spare Vehicle Number")
	departureHeader, _ := findHeader(table.Headers, "Workshop Departure Time")

	for i, row := range table.Rows {
		date := strings.TrimSpace(row[dateHeader])
		zone, zoneOK := extractZone(row[zoneHeader])
		departure := strings.TrimSpace(row[departureHeader])
		if date == "" || !zoneOK || departure == "" {
			out.skip(i, "missing date, zone or departure time")
			continue
		}

		out.Records = append(out.Records, core.Record{
			Date:              core.NormalizeDate(date),
			Zone:              zone,
			Count:             1,
			Ward:              strings.TrimSpace(row[wardHeader]),
			PermanentVehicle:  strings.TrimSpace(row[permanentHeader]),
			SpareVehicle:      strings.TrimSpace(row[spareHeader]),
			WorkshopDeparture: departure,
		})
	}
	return out
}
