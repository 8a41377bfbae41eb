// Package timeutil holds the calendar-date conventions of the business.
// Dates (event, return, issued, due) are stored as midnight UTC of the civil
// date as seen in the business timezone.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
	DefaultZone   = "Asia/Kolkata"
)

// IST is used whenever no explicit location is configured.
var IST = Location(DefaultZone)

// Location loads the named zone, falling back to a fixed UTC+5:30 zone when
// the tz database is unavailable.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// DateOf returns the civil date of t in loc, as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = IST
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the civil
// date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return DateOf(ts, loc), nil
}

// FormatDate renders a stored civil date.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateLayout)
}

// AddDays shifts a civil date.
func AddDays(d time.Time, days int) time.Time {
	return d.AddDate(0, 0, days)
}
