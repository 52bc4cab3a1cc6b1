package schedule

import (
	"time"

	"github.com/timefly/timefly/internal/model"
)

// SlotInterval is the grid step in minutes. Slots land on :00/:15/:30/:45;
// the :15 and :45 marks are emergency buffers reserved for emergency-priority
// bookings.
const SlotInterval = 15

// Lunch window, inclusive of every minute from 12:00 through 12:59.
const (
	lunchStart = 12 * 60
	lunchEnd   = 13 * 60
)

// Options controls a slot generation run.
type Options struct {
	// Emergency marks the querying booking as emergency priority, which
	// unlocks the emergency buffer slots.
	Emergency bool

	// ExcludeID ignores one appointment in the booked check; set when
	// rescheduling so the appointment being moved does not block itself.
	ExcludeID string

	// Now is the instant used for same-day past-slot trimming. Zero means
	// the current time.
	Now time.Time

	// Location is the clinic wall-clock timezone. Nil means Asia/Manila.
	// Trimming must follow the clinic's clock even when the process or the
	// caller runs elsewhere.
	Location *time.Location
}

// Generate expands a doctor's resolved schedule for a date into the ordered
// list of candidate time slots. Emergency buffer slots are omitted entirely
// for non-emergency queries, so a slot in the result marked available is
// always genuinely bookable at the caller's priority.
func Generate(doc *model.Doctor, date string, appts []model.Appointment, opts Options) []model.TimeSlot {
	plan := Resolve(doc, date)
	if !plan.Open {
		return nil
	}

	loc := opts.Location
	if loc == nil {
		loc = ClinicLocation("")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	isToday := date == DateOf(now, loc)
	nowMinutes := MinutesOfDay(now, loc)

	var slots []model.TimeSlot
	for m := plan.Start; m+SlotInterval <= plan.End; m += SlotInterval {
		emergency := m%30 == SlotInterval
		if emergency && !opts.Emergency {
			continue
		}
		if m >= lunchStart && m < lunchEnd {
			continue
		}
		if isToday && m <= nowMinutes {
			continue
		}

		clock := FormatClock(m)
		occupancy := clock
		if emergency {
			// An emergency booking is stored at its buffer-shifted time, so
			// the buffer slot is occupied exactly when that shifted time is
			// taken.
			occupancy = EmergencyTime(clock, doc.BufferTime)
		}
		booked := HasConflict(date, occupancy, doc.ID, appts, opts.ExcludeID)
		slots = append(slots, model.TimeSlot{
			Time:      clock,
			Available: !booked,
			Booked:    booked,
			Emergency: emergency,
		})
	}
	return slots
}
