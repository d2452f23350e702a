package inventory

import (
	"strings"
	"time"
)

// LocaleTimestampLayout is how action logs stamp rows (Indonesian locale).
const LocaleTimestampLayout = "2/1/2006, 15.04.05"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	LocaleTimestampLayout,
	"1/2/2006",
	"1/2/2006 15:04:05",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
}

// ParseDate accepts the date shapes that show up in the sheets. Slash dates
// without a time are month first; the locale timestamp is day first.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// IsASAP reports whether a planned return date is the ASAP marker.
func IsASAP(planned string) bool {
	return strings.EqualFold(strings.TrimSpace(planned), "ASAP")
}

// IsOverdue is true when the planned date is a real date strictly before
// today, both compared at midnight.
func IsOverdue(planned string, today time.Time, loc *time.Location) bool {
	if IsASAP(planned) {
		return false
	}
	d, ok := ParseDate(planned, loc)
	if !ok {
		return false
	}
	return Midnight(d, loc).Before(Midnight(today, loc))
}
