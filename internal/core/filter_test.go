package core

import (
	"reflect"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{Date: "2024-03-01", Zone: "1", Count: 10},
		{Date: "2024-03-02", Zone: "1", Count: 12},
		{Date: "2024-03-02", Zone: "2", Count: 8},
		{Date: "2024-03-05", Zone: "3", Count: 4},
	}
}

func TestApplyFilterEmptyMatchesAll(t *testing.T) {
	records := sampleRecords()
	got := ApplyFilter(records, Filter{})
	if len(got) != len(records) {
		t.Fatalf("empty filter returned %d records, want %d", len(got), len(records))
	}
}

func TestApplyFilterDateOrSemantics(t *testing.T) {
	records := sampleRecords()

	// Exact date OR range: a record matching either passes.
	f := Filter{
		SelectedDate: "2024-03-05",
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-02",
	}
	got := ApplyFilter(records, f)
	if len(got) != 4 {
		t.Fatalf("got %d records, want 4 (range covers first three, exact date covers the fourth)", len(got))
	}
}

func TestApplyFilterRange(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{
			name:   "inclusive bounds",
			filter: Filter{StartDate: "2024-03-01", EndDate: "2024-03-02"},
			want:   3,
		},
		{
			name:   "open-ended start",
			filter: Filter{EndDate: "2024-03-02"},
			want:   3,
		},
		{
			name:   "open-ended end",
			filter: Filter{StartDate: "2024-03-02"},
			want:   3,
		},
		{
			name:   "non-canonical input dates",
			filter: Filter{StartDate: "01/03/2024", EndDate: "02/03/2024"},
			want:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(sampleRecords(), tt.filter)
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestApplyFilterZoneAndDate(t *testing.T) {
	// Zone is ANDed with the date condition.
	f := Filter{
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-02",
		SelectedZone: "1",
	}
	got := ApplyFilter(sampleRecords(), f)
	want := []Record{
		{Date: "2024-03-01", Zone: "1", Count: 10},
		{Date: "2024-03-02", Zone: "1", Count: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyFilterTripCounts(t *testing.T) {
	records := []Record{
		{Date: "2024-03-01", Zone: "1", HasTripCounts: true, TripCount0: 2, TripCount1: 0, TripCount2: 5},
		{Date: "2024-03-01", Zone: "2", HasTripCounts: true, TripCount0: 0, TripCount1: 3, TripCount2: 0},
		{Date: "2024-03-01", Zone: "3", Count: 7}, // no trip data
	}

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{name: "all keeps everything", filter: TripCountAll, want: 3},
		{name: "empty keeps everything", filter: "", want: 3},
		{name: "zero trips", filter: "0", want: 2},  // first record plus pass-through
		{name: "one trip", filter: "1", want: 2},    // second record plus pass-through
		{name: "two trips", filter: "2", want: 2},   // first record plus pass-through
		{name: "unknown value keeps everything", filter: "9", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(records, Filter{TripCountFilter: tt.filter})
			if len(got) != tt.want {
				t.Errorf("filter %q: got %d records, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestUIFilterToFilter(t *testing.T) {
	tests := []struct {
		name string
		ui   UIFilter
		want Filter
	}{
		{
			name: "range maps to start and end",
			ui: UIFilter{
				DateRange:    DateRange{From: "2024-03-01", To: "2024-03-05"},
				SelectedZone: "2",
			},
			want: Filter{StartDate: "2024-03-01", EndDate: "2024-03-05", SelectedZone: "2"},
		},
		{
			name: "quick date wins over range",
			ui: UIFilter{
				DateRange: DateRange{From: "2024-03-01", To: "2024-03-05"},
				QuickDate: "2024-03-02",
			},
			want: Filter{SelectedDate: "2024-03-02"},
		},
		{
			name: "trip filter carries over",
			ui:   UIFilter{TripCountFilter: "2"},
			want: Filter{TripCountFilter: "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ui.ToFilter()
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"-1", -1, true},
		{"0", 0, true},
		{"Zone 3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseZone(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseZone(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
