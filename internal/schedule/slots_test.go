package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timefly/timefly/internal/model"
)

var manila = ClinicLocation("")

// dayBefore is an instant well before 2025-06-10 in clinic time, so no
// past-slot trimming applies.
var dayBefore = time.Date(2025, 6, 9, 8, 0, 0, 0, manila)

func TestGenerateFullDay(t *testing.T) {
	doc := testDoctor()
	doc.WorkingDays = []string{"Tuesday"}

	slots := Generate(doc, "2025-06-10", nil, Options{Now: dayBefore, Location: manila})
	require.NotEmpty(t, slots)

	// 09:00–17:00 on the half-hour grid is 16 starts; 12:00 and 12:30 fall
	// in lunch, leaving 14.
	assert.Len(t, slots, 14)
	assert.Equal(t, "9:00 AM", slots[0].Time)
	assert.Equal(t, "4:30 PM", slots[len(slots)-1].Time)

	for _, s := range slots {
		assert.False(t, s.Emergency, "non-emergency query returned buffer slot %s", s.Time)
		assert.True(t, s.Available)
		assert.False(t, s.Booked)

		m, ok := ParseClock(s.Time)
		require.True(t, ok)
		assert.False(t, m >= lunchStart && m < lunchEnd, "slot %s falls in lunch", s.Time)
	}
}

func TestGenerateEmergencyUnlocksBufferSlots(t *testing.T) {
	doc := testDoctor()

	regular := Generate(doc, "2025-06-10", nil, Options{Now: dayBefore, Location: manila})
	emergency := Generate(doc, "2025-06-10", nil, Options{Emergency: true, Now: dayBefore, Location: manila})

	assert.Greater(t, len(emergency), len(regular))

	var buffers int
	for _, s := range emergency {
		if s.Emergency {
			buffers++
			assert.True(t, s.Available)
		}
	}
	assert.NotZero(t, buffers)

	// 9:15 AM sits on a buffer mark: emergency-only.
	assert.NotContains(t, slotTimes(regular), "9:15 AM")
	assert.Contains(t, slotTimes(emergency), "9:15 AM")
}

func TestGenerateEmergencySlotReflectsShiftedOccupancy(t *testing.T) {
	doc := testDoctor() // buffer 15
	appt := model.Appointment{
		ID:       "appt-1",
		DoctorID: doc.ID,
		Date:     "2025-06-10",
		Time:     "9:00 AM",
		Status:   model.StatusConfirmed,
	}

	slots := Generate(doc, "2025-06-10", []model.Appointment{appt}, Options{Emergency: true, Now: dayBefore, Location: manila})

	// Booking 9:15 as an emergency would store 9:00, which is taken, so the
	// buffer slot must read as booked.
	slot := findSlot(t, slots, "9:15 AM")
	assert.True(t, slot.Booked)
	assert.False(t, slot.Available)

	// The occupied mark itself is booked; 9:45 shifts to a free 9:30.
	assert.True(t, findSlot(t, slots, "9:00 AM").Booked)
	assert.False(t, findSlot(t, slots, "9:45 AM").Booked)

	// Excluding the occupying appointment frees the buffer slot again.
	slots = Generate(doc, "2025-06-10", []model.Appointment{appt}, Options{Emergency: true, ExcludeID: "appt-1", Now: dayBefore, Location: manila})
	assert.False(t, findSlot(t, slots, "9:15 AM").Booked)
}

func TestGenerateMarksBookedSlots(t *testing.T) {
	doc := testDoctor()
	appt := model.Appointment{
		ID:       "appt-1",
		DoctorID: doc.ID,
		Date:     "2025-06-10",
		Time:     "10:00 AM",
		Status:   model.StatusConfirmed,
	}

	slots := Generate(doc, "2025-06-10", []model.Appointment{appt}, Options{Now: dayBefore, Location: manila})
	slot := findSlot(t, slots, "10:00 AM")
	assert.True(t, slot.Booked)
	assert.False(t, slot.Available)

	// Excluding the appointment (a reschedule of it) frees the slot again.
	slots = Generate(doc, "2025-06-10", []model.Appointment{appt}, Options{ExcludeID: "appt-1", Now: dayBefore, Location: manila})
	slot = findSlot(t, slots, "10:00 AM")
	assert.False(t, slot.Booked)
	assert.True(t, slot.Available)
}

func TestGenerateCancelledDoesNotBlock(t *testing.T) {
	doc := testDoctor()
	appt := model.Appointment{
		ID:       "appt-1",
		DoctorID: doc.ID,
		Date:     "2025-06-10",
		Time:     "10:00 AM",
		Status:   model.StatusCancelled,
	}

	slots := Generate(doc, "2025-06-10", []model.Appointment{appt}, Options{Now: dayBefore, Location: manila})
	assert.True(t, findSlot(t, slots, "10:00 AM").Available)
}

func TestGenerateTrimsPastSlotsInClinicTime(t *testing.T) {
	doc := testDoctor()

	// 01:30 UTC on the 10th is 09:30 in Manila: 9:00 AM must be gone, and
	// the 9:30 start itself is "at or before now" so it is gone too.
	now := time.Date(2025, 6, 10, 1, 30, 0, 0, time.UTC)
	slots := Generate(doc, "2025-06-10", nil, Options{Now: now, Location: manila})
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00 AM", slots[0].Time)

	// A different date is never trimmed.
	slots = Generate(doc, "2025-06-11", nil, Options{Now: now, Location: manila})
	assert.Equal(t, "9:00 AM", slots[0].Time)
}

func TestGenerateClosedDay(t *testing.T) {
	t.Run("closed by override", func(t *testing.T) {
		doc := testDoctor()
		doc.ScheduleSettings = map[string]model.ScheduleOverride{
			"2025-06-10": {Available: false},
		}
		assert.Empty(t, Generate(doc, "2025-06-10", nil, Options{Now: dayBefore, Location: manila}))
	})

	t.Run("no working hours", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingHours = model.WorkingHours{}
		assert.Empty(t, Generate(doc, "2025-06-10", nil, Options{Now: dayBefore, Location: manila}))
	})
}

func TestGenerateCustomHoursWindow(t *testing.T) {
	doc := testDoctor()
	doc.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-06-10": {
			Available:   true,
			CustomHours: &model.WorkingHours{Start: "14:00", End: "15:00"},
		},
	}

	slots := Generate(doc, "2025-06-10", nil, Options{Now: dayBefore, Location: manila})
	assert.Equal(t, []string{"2:00 PM", "2:30 PM"}, slotTimes(slots))
}

func TestGenerateOrdering(t *testing.T) {
	doc := testDoctor()
	slots := Generate(doc, "2025-06-10", nil, Options{Emergency: true, Now: dayBefore, Location: manila})

	prev := -1
	for _, s := range slots {
		m, ok := ParseClock(s.Time)
		require.True(t, ok)
		assert.Greater(t, m, prev, "slots out of order at %s", s.Time)
		prev = m
	}
}

func slotTimes(slots []model.TimeSlot) []string {
	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Time
	}
	return times
}

func findSlot(t *testing.T, slots []model.TimeSlot, clock string) model.TimeSlot {
	t.Helper()
	for _, s := range slots {
		if s.Time == clock {
			return s
		}
	}
	t.Fatalf("slot %s not found", clock)
	return model.TimeSlot{}
}
