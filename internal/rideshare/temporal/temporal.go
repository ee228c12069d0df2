// Package temporal turns separately picked date and time values into the
// single timestamp a ride is posted with, and checks the date strings users
// type into search and posting forms.
package temporal

import (
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Combine takes the calendar day from datePart and the hour and minute from
// timePart. Seconds are dropped. The result is in datePart's location.
func Combine(datePart, timePart time.Time) time.Time {
	y, m, d := datePart.Date()
	return time.Date(y, m, d, timePart.Hour(), timePart.Minute(), 0, 0, datePart.Location())
}

// CanonicalDate formats t as YYYY-MM-DD in t's own location.
func CanonicalDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DisplayTime formats t as a zero-padded 24h HH:MM.
func DisplayTime(t time.Time) string {
	return t.Format(timeLayout)
}

func DisplayDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// ValidateDateString reports whether s can be sent as a date filter. The empty
// string is valid because the filter is optional. Anything else must be
// YYYY-MM-DD and name a day that exists.
func ValidateDateString(s string) bool {
	if s == "" {
		return true
	}
	_, ok := ParseDate(s, time.UTC)
	return ok
}

// ParseDate reads a YYYY-MM-DD string as midnight in loc. Surrounding
// whitespace is not accepted.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseTimestamp reads an ISO-8601 timestamp as sent by the server.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// InitialPick is the value a picker opens on: the already resolved timestamp,
// otherwise the typed date, otherwise now.
func InitialPick(current *time.Time, date string, now time.Time, loc *time.Location) time.Time {
	if current != nil {
		return *current
	}
	if t, ok := ParseDate(strings.TrimSpace(date), loc); ok {
		return t
	}
	return now
}
