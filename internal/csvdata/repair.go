package csvdata

import (
	"regexp"
	"strings"
)

var (
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	rowPattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}),([^,]*),(.*)$`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// needsRepair reports whether the export came back as a single line even
// though it clearly contains dated data rows.
func needsRepair(text string) bool {
	return !strings.Contains(text, "\n") && datePattern.MatchString(text)
}

// repairSingleLine reconstructs row boundaries in a collapsed export. The
// text before the first ISO date is taken as the header; each date then
// starts a new row. Within a recovered row, runs of whitespace in the tail
// past the second comma are treated as lost cell separators.
func repairSingleLine(text string) string {
	locs := datePattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	header := strings.TrimSpace(text[:locs[0][0]])
	header = strings.TrimSuffix(header, ",")

	var lines []string
	if header != "" {
		lines = append(lines, header)
	}

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := strings.TrimSpace(text[loc[0]:end])
		segment = strings.TrimSuffix(segment, ",")

		if m := rowPattern.FindStringSubmatch(segment); m != nil {
			rest := spaceRun.ReplaceAllString(strings.TrimSpace(m[3]), ",")
			segment = m[1] + "," + m[2] + "," + rest
		}
		lines = append(lines, segment)
	}

	return strings.Join(lines, "\n")
}
