package schedule

import "github.com/timefly/timefly/internal/model"

// DefaultMaxAppointments is the daily cap used when a doctor record does not
// carry one.
const DefaultMaxAppointments = 8

// DayPlan is the effective schedule for one doctor on one calendar date.
// Start and End are minutes since midnight; they are only meaningful when
// Open is true.
type DayPlan struct {
	Open            bool
	Start           int
	End             int
	MaxAppointments int
}

// Resolve folds a doctor's default schedule, weekly off-days, date
// allow/deny lists and per-date overrides into the effective plan for one
// date. Precedence: the global availability switch wins over everything; a
// ScheduleSettings entry for the date supersedes every other check; otherwise
// offDays, workingDays, availableDates and unavailableDates apply in that
// order. Absent or malformed configuration resolves to a closed day, never
// an error.
func Resolve(doc *model.Doctor, date string) DayPlan {
	if doc == nil || !doc.Available {
		return DayPlan{}
	}

	hours := doc.WorkingHours
	maxAppts := doc.MaxAppointments

	if override, ok := doc.ScheduleSettings[date]; ok {
		if !override.Available {
			return DayPlan{}
		}
		if override.CustomHours != nil {
			hours = *override.CustomHours
		}
		if override.MaxAppointments != nil {
			maxAppts = *override.MaxAppointments
		}
		return openPlan(hours, maxAppts)
	}

	if containsFold(doc.OffDays, date) {
		return DayPlan{}
	}
	if len(doc.WorkingDays) > 0 {
		weekday, ok := WeekdayName(date)
		if !ok || !containsFold(doc.WorkingDays, weekday) {
			return DayPlan{}
		}
	}
	if len(doc.AvailableDates) > 0 && !containsFold(doc.AvailableDates, date) {
		return DayPlan{}
	}
	if containsFold(doc.UnavailableDates, date) {
		return DayPlan{}
	}

	return openPlan(hours, maxAppts)
}

// openPlan validates the working window; a doctor with no usable hours has
// no bookable day.
func openPlan(hours model.WorkingHours, maxAppts int) DayPlan {
	start, okStart := ParseClock(hours.Start)
	end, okEnd := ParseClock(hours.End)
	if !okStart || !okEnd || end <= start {
		return DayPlan{}
	}
	if maxAppts <= 0 {
		maxAppts = DefaultMaxAppointments
	}
	return DayPlan{Open: true, Start: start, End: end, MaxAppointments: maxAppts}
}
