package csvdata

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeaders []string
		wantRows    []map[string]string
	}{
		{
			name:        "simple table",
			input:       "Date,Zone,Count\n2024-03-01,1,10\n2024-03-02,2,8\n",
			wantHeaders: []string{"Date", "Zone", "Count"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1", "Count": "10"},
				{"Date": "2024-03-02", "Zone": "2", "Count": "8"},
			},
		},
		{
			name:        "quoted field with comma",
			input:       "Date,Remarks\n2024-03-01,\"late, very late\"\n",
			wantHeaders: []string{"Date", "Remarks"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Remarks": "late, very late"},
			},
		},
		{
			name:        "ragged short row padded",
			input:       "Date,Zone,Count\n2024-03-01,1\n",
			wantHeaders: []string{"Date", "Zone", "Count"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1", "Count": ""},
			},
		},
		{
			name:        "extra cells dropped",
			input:       "Date,Zone\n2024-03-01,1,stray\n",
			wantHeaders: []string{"Date", "Zone"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1"},
			},
		},
		{
			name:        "carriage returns and blank lines",
			input:       "Date,Zone\r\n\r\n2024-03-01,1\r",
			wantHeaders: []string{"Date", "Zone"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1"},
			},
		},
		{
			name:        "bom stripped",
			input:       "\ufeffDate,Zone\n2024-03-01,1\n",
			wantHeaders: []string{"Date", "Zone"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1"},
			},
		},
		{
			name:        "whitespace trimmed from cells",
			input:       "Date , Zone \n 2024-03-01 , 1 \n",
			wantHeaders: []string{"Date", "Zone"},
			wantRows: []map[string]string{
				{"Date": "2024-03-01", "Zone": "1"},
			},
		},
		{
			name:        "empty input",
			input:       "",
			wantHeaders: []string{},
			wantRows:    nil,
		},
		{
			name:        "header only",
			input:       "Date,Zone\n",
			wantHeaders: []string{"Date", "Zone"},
			wantRows:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got.Headers, tt.wantHeaders) {
				t.Errorf("headers = %v, want %v", got.Headers, tt.wantHeaders)
			}
			if !reflect.DeepEqual(got.Rows, tt.wantRows) {
				t.Errorf("rows = %v, want %v", got.Rows, tt.wantRows)
			}
		})
	}
}

func TestParseRepairsCollapsedExport(t *testing.T) {
	input := "Date,Zone,Count,2024-03-01,1,10 extra,2024-03-02,2,8 more"
	got := Parse(input)

	wantHeaders := []string{"Date", "Zone", "Count"}
	if !reflect.DeepEqual(got.Headers, wantHeaders) {
		t.Fatalf("headers = %v, want %v", got.Headers, wantHeaders)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(got.Rows))
	}
	if got.Rows[0]["Date"] != "2024-03-01" || got.Rows[0]["Zone"] != "1" || got.Rows[0]["Count"] != "10" {
		t.Errorf("first repaired row = %v", got.Rows[0])
	}
	if got.Rows[1]["Date"] != "2024-03-02" || got.Rows[1]["Zone"] != "2" {
		t.Errorf("second repaired row = %v", got.Rows[1])
	}
}

func TestNeedsRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "collapsed with date", input: "Date,Zone,2024-03-01,1", want: true},
		{name: "has newlines", input: "Date,Zone\n2024-03-01,1", want: false},
		{name: "single line without date", input: "Date,Zone,Count", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsRepair(tt.input); got != tt.want {
				t.Errorf("needsRepair(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
