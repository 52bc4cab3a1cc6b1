package schedule

import "github.com/timefly/timefly/internal/model"

// DateRange expands an inclusive ISO date range into individual dates.
// Invalid or inverted bounds yield an empty range.
func DateRange(from, to string) []string {
	start, okFrom := ParseDate(from)
	end, okTo := ParseDate(to)
	if !okFrom || !okTo || end.Before(start) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// BuildCalendar computes the per-day aggregate shown on the calendar grid:
// for every date, the total booked count, the total capacity across open
// doctors, and the per-doctor breakdown.
func BuildCalendar(doctors []model.Doctor, appts []model.Appointment, dates []string) []model.DaySchedule {
	// Bucket active appointments by (date, doctor) once.
	type key struct{ date, doctorID string }
	booked := make(map[key]int)
	for i := range appts {
		a := &appts[i]
		if a.Active() {
			booked[key{a.Date, a.DoctorID}]++
		}
	}

	days := make([]model.DaySchedule, 0, len(dates))
	for _, date := range dates {
		day := model.DaySchedule{Date: date}
		for i := range doctors {
			doc := &doctors[i]
			plan := Resolve(doc, date)
			load := model.DoctorDayLoad{
				DoctorID:  doc.ID,
				Name:      doc.Name,
				Available: plan.Open,
				Booked:    booked[key{date, doc.ID}],
			}
			if plan.Open {
				load.Max = plan.MaxAppointments
				day.Capacity += plan.MaxAppointments
			}
			day.Booked += load.Booked
			day.Doctors = append(day.Doctors, load)
		}
		days = append(days, day)
	}
	return days
}
