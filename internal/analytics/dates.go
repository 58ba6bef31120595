package analytics

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// ParseDate parses a sheet date cell
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// window is an inclusive date range. A bound that was given but does not
// parse makes the window reject everything.
type window struct {
	start, end       time.Time
	hasStart, hasEnd bool
	invalid          bool
}

func newWindow(startDate, endDate string) window {
	var w window
	if startDate != "" {
		w.start, w.hasStart = ParseDate(startDate)
		w.invalid = w.invalid || !w.hasStart
	}
	if endDate != "" {
		w.end, w.hasEnd = ParseDate(endDate)
		w.invalid = w.invalid || !w.hasEnd
	}
	return w
}

func (w window) contains(s string) bool {
	if w.invalid {
		return false
	}
	d, ok := ParseDate(s)
	if !ok {
		return false
	}
	if w.hasStart && d.Before(w.start) {
		return false
	}
	if w.hasEnd && d.After(w.end) {
		return false
	}
	return true
}
