package schedule

import "github.com/timefly/timefly/internal/model"

// HasConflict reports whether a non-cancelled appointment other than
// excludeID already occupies the (doctorID, date, clock) triple. Times are
// compared on their normalized minute value, so "9:00 AM" and "09:00" refer
// to the same slot. An unparseable clock never conflicts.
func HasConflict(date, clock, doctorID string, appts []model.Appointment, excludeID string) bool {
	want, ok := ParseClock(clock)
	if !ok {
		return false
	}
	for i := range appts {
		a := &appts[i]
		if a.Date != date || a.DoctorID != doctorID || !a.Active() {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if got, ok := ParseClock(a.Time); ok && got == want {
			return true
		}
	}
	return false
}

// EmergencyTime shifts a requested display time backward by the doctor's
// buffer, so an emergency booking reserves the buffer window preceding the
// shown slot. The booking path and the slot generator must both apply this
// rule or the same window could be double-booked.
func EmergencyTime(clock string, bufferMinutes int) string {
	m, ok := ParseClock(clock)
	if !ok || bufferMinutes <= 0 {
		return clock
	}
	m -= bufferMinutes
	if m < 0 {
		m = 0
	}
	return FormatClock(m)
}

// Duplicates returns, for each (doctor, date, time) triple occupied by more
// than one non-cancelled appointment, every appointment except the earliest
// created. The unique index on the store makes this impossible in normal
// operation; callers log what comes back for operator remediation instead of
// failing.
func Duplicates(appts []model.Appointment, date string) []model.Appointment {
	type key struct {
		doctorID string
		minutes  int
	}
	earliest := make(map[key]int)
	var extras []model.Appointment

	for i := range appts {
		a := &appts[i]
		if a.Date != date || !a.Active() {
			continue
		}
		m, ok := ParseClock(a.Time)
		if !ok {
			continue
		}
		k := key{doctorID: a.DoctorID, minutes: m}
		prev, seen := earliest[k]
		if !seen {
			earliest[k] = i
			continue
		}
		if a.CreatedAt.Before(appts[prev].CreatedAt) {
			extras = append(extras, appts[prev])
			earliest[k] = i
		} else {
			extras = append(extras, *a)
		}
	}
	return extras
}
