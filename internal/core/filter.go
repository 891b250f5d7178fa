package core

// TripCountAll disables trip-count filtering.
const TripCountAll = "all"

// Filter is the constraint set applied to a record slice. Date constraints
// combine with OR: a record matches when it equals SelectedDate or falls
// inside [StartDate, EndDate]; either side of the range may be empty for a
// one-sided bound. The zone and trip-count constraints AND with the date
// result. A fully empty filter matches everything.
type Filter struct {
	SelectedDate    string `json:"selectedDate,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	SelectedZone    string `json:"selectedZone,omitempty"`
	TripCountFilter string `json:"tripCountFilter,omitempty"`
}

// ApplyFilter returns the records matching every filter category. It never
// fails: malformed dates pass through NormalizeDate unchanged and compare
// as opaque strings.
func ApplyFilter(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if f.matchDate(rec) && f.matchZone(rec) && f.matchTripCount(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f Filter) matchDate(rec Record) bool {
	if f.SelectedDate == "" && f.StartDate == "" && f.EndDate == "" {
		return true
	}
	d := NormalizeDate(rec.Date)
	if f.SelectedDate != "" && d == NormalizeDate(f.SelectedDate) {
		return true
	}
	if f.StartDate != "" || f.EndDate != "" {
		start := NormalizeDate(f.StartDate)
		end := NormalizeDate(f.EndDate)
		if (f.StartDate == "" || d >= start) && (f.EndDate == "" || d <= end) {
			return true
		}
	}
	return false
}

func (f Filter) matchZone(rec Record) bool {
	return f.SelectedZone == "" || rec.Zone == f.SelectedZone
}

// matchTripCount requires a positive count in the selected trip bucket.
// Records without trip fields always pass, so the filter is a no-op for
// every sheet except the trip-count one.
func (f Filter) matchTripCount(rec Record) bool {
	switch f.TripCountFilter {
	case "", TripCountAll:
		return true
	}
	if !rec.HasTripCounts {
		return true
	}
	switch f.TripCountFilter {
	case "0":
		return rec.TripCount0 > 0
	case "1":
		return rec.TripCount1 > 0
	case "2":
		return rec.TripCount2 > 0
	}
	return true
}

// DateRange bounds an inclusive date span; either side may be empty.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UIFilter is the filter shape submitted by the dashboard UI.
type UIFilter struct {
	DateRange       DateRange `json:"dateRange"`
	QuickDate       string    `json:"quickDate"`
	SelectedZone    string    `json:"selectedZone"`
	TripCountFilter string    `json:"tripCountFilter"`
	SheetName       string    `json:"sheetName"`
}

// ToFilter maps the UI shape onto the engine's filter state. QuickDate
// takes priority over DateRange when both are present.
func (u UIFilter) ToFilter() Filter {
	f := Filter{
		SelectedZone:    u.SelectedZone,
		TripCountFilter: u.TripCountFilter,
	}
	if u.QuickDate != "" {
		f.SelectedDate = u.QuickDate
		return f
	}
	f.StartDate = u.DateRange.From
	f.EndDate = u.DateRange.To
	return f
}
