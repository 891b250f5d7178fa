// Package csvdata parses the CSV text that Google Sheets exports produce.
// Exports are close to RFC 4180 but not quite: ragged rows, stray carriage
// returns, and occasionally an entire sheet collapsed onto one line.
package csvdata

import "strings"

// Table is a parsed sheet: the header row plus each data row keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Parse converts raw CSV text into a Table. The first non-blank line becomes
// the header row. Rows shorter than the header are padded with empty strings;
// extra cells are dropped.
func Parse(text string) Table {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if needsRepair(text) {
		text = repairSingleLine(text)
	}

	var headers []string
	var rows []map[string]string

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if headers == nil {
			headers = fields
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	if headers == nil {
		headers = []string{}
	}
	return Table{Headers: headers, Rows: rows}
}

// splitLine splits one CSV line on commas, honoring double quotes. Quotes
// toggle an in-quote state; commas inside quotes are literal. Fields are
// trimmed and surrounding quotes stripped.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}
