package core

import (
	"strconv"
	"strings"
)

// Record is the canonical per-zone/per-date unit produced by the sheet
// transformers. Count is the primary aggregable quantity; its meaning
// depends on the source sheet (vehicle count, issue count, percentage).
type Record struct {
	Date  string  `json:"date"`
	Zone  string  `json:"zone"`
	Count float64 `json:"count"`

	// Issue-oriented sheets.
	IssueBreakdown map[string]int `json:"issueBreakdown,omitempty"`
	Details        []Detail       `json:"details,omitempty"`

	// Trip-count sheet. HasTripCounts distinguishes a genuine zero trip
	// count from a record that never carried trip fields at all.
	HasTripCounts bool `json:"hasTripCounts,omitempty"`
	TripCount0    int  `json:"tripCount0,omitempty"`
	TripCount1    int  `json:"tripCount1,omitempty"`
	TripCount2    int  `json:"tripCount2,omitempty"`

	// Percentage sheet.
	Percentage         float64 `json:"percentage,omitempty"`
	SoftwarePercentage float64 `json:"softwarePercentage,omitempty"`
	ActualPercentage   float64 `json:"actualPercentage,omitempty"`
	Remarks            string  `json:"remarks,omitempty"`

	// Vehicle-numbers sheet.
	VehicleNumbers []string `json:"vehicleNumbers,omitempty"`
	TotalVehicles  int      `json:"totalVehicles,omitempty"`

	// Workshop sheet.
	Ward              string `json:"ward,omitempty"`
	PermanentVehicle  string `json:"permanentVehicle,omitempty"`
	SpareVehicle      string `json:"spareVehicle,omitempty"`
	WorkshopDeparture string `json:"workshopDeparture,omitempty"`
}

// Detail is one per-vehicle drill-down entry attached to a Record.
type Detail struct {
	Vehicle string `json:"vehicle,omitempty"`
	Time    string `json:"time,omitempty"`
	Issue   string `json:"issue,omitempty"`
	Status  string `json:"status,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// Dataset maps sheet name to its transformed records. A dataset is replaced
// wholesale on every refresh, never merged incrementally.
type Dataset map[string][]Record

// ZoneNumber returns the numeric interpretation of the record's zone.
// Zones that fail to parse have no numeric interpretation; zones that do
// parse are only display-eligible when positive.
func (r Record) ZoneNumber() (int, bool) {
	return ParseZone(r.Zone)
}

// ParseZone interprets a zone identifier as a signed integer.
func ParseZone(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
