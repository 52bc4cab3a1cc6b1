// Package schedule is the availability and queue computation engine.
// Everything in here is a pure function over snapshots supplied by the
// caller: no I/O, no clocks other than the ones passed in.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is the clinic wall-clock used for "today" and past-slot
// trimming when the caller does not supply a location.
const DefaultTimezone = "Asia/Manila"

const (
	dateLayout    = "2006-01-02"
	minutesPerDay = 24 * 60
)

// clockLayouts are the accepted wall-clock forms: the 12-hour on-the-wire
// representation and the 24-hour form used for working hours.
var clockLayouts = []string{"3:04 PM", "15:04"}

// ParseClock converts a wall-clock string to minutes since midnight.
// It accepts "9:00 AM" and "09:00" style values. All comparison and sorting
// in the engine happens on the returned minute value, never on the raw
// string, because "9:00 AM" < "10:00 AM" is false lexically.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// FormatClock renders minutes since midnight as the canonical 12-hour
// "h:mm AM/PM" representation.
func FormatClock(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	h := m / 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m%60, suffix)
}

// ParseDate parses an ISO yyyy-mm-dd date string.
func ParseDate(date string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WeekdayName returns the English weekday name ("Tuesday") for an ISO date.
func WeekdayName(date string) (string, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return "", false
	}
	return t.Weekday().String(), true
}

// DateOf formats the instant as an ISO date in the given location.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// MinutesOfDay returns the wall-clock minute of the instant in the given
// location.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// ClinicLocation loads the named timezone, falling back to the default
// clinic timezone and finally to a fixed UTC+8 when tzdata is unavailable.
func ClinicLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone("UTC+8", 8*60*60)
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
