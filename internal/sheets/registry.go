package sheets

// Canonical sheet names. These are the keys of every dataset map in the
// system; fetchers, transformers and the API all agree on them.
const (
	OnRouteVehicles    = "onRouteVehicles"
	OnBoardAfter3PM    = "onBoardAfter3PM"
	LessThan3Trips     = "lessThan3Trips"
	GlitchPercentage   = "glitchPercentage"
	IssuesPost0710     = "issuesPost0710"
	FuelStation        = "fuelStation"
	Post06AMOpenIssues = "post06AMOpenIssues"
	VehicleBreakdown   = "vehicleBreakdown"
	VehicleNumbers     = "vehicleNumbers"
	SphereWorkshopExit = "sphereWorkshopExit"
)

var names = []string{
	OnRouteVehicles,
	OnBoardAfter3PM,
	LessThan3Trips,
	GlitchPercentage,
	IssuesPost0710,
	FuelStation,
	Post06AMOpenIssues,
	VehicleBreakdown,
	VehicleNumbers,
	SphereWorkshopExit,
}

// DefaultGIDs maps each sheet name to the gid of its tab in the published
// spreadsheet. Individual entries can be overridden via configuration when
// the spreadsheet layout changes.
var DefaultGIDs = map[string]string{
	OnRouteVehicles:    "0",
	OnBoardAfter3PM:    "1066921680",
	LessThan3Trips:     "1433161878",
	GlitchPercentage:   "721909469",
	IssuesPost0710:     "1152611937",
	FuelStation:        "480055462",
	Post06AMOpenIssues: "1773725269",
	VehicleBreakdown:   "602373113",
	VehicleNumbers:     "1921463988",
	SphereWorkshopExit: "258063865",
}

// Names returns all known sheet names in their fixed display order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Known reports whether name is a registered sheet.
func Known(name string) bool {
	_, ok := DefaultGIDs[name]
	return ok
}
