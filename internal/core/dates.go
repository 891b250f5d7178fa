package core

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. ISO comes first so normalization is
// idempotent; day-first layouts precede month-first because the source
// sheets are filled in DD/MM order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormalizeDate canonicalizes a date string to YYYY-MM-DD. Unparseable
// input is returned unchanged so callers can still compare it as an opaque
// key. Transformers and the filter engine must both go through this
// function, otherwise exact-date filtering breaks.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
