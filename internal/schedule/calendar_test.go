package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timefly/timefly/internal/model"
)

func TestDateRange(t *testing.T) {
	assert.Equal(t,
		[]string{"2025-06-09", "2025-06-10", "2025-06-11"},
		DateRange("2025-06-09", "2025-06-11"))

	assert.Equal(t, []string{"2025-06-10"}, DateRange("2025-06-10", "2025-06-10"))
	assert.Nil(t, DateRange("2025-06-11", "2025-06-10"))
	assert.Nil(t, DateRange("junk", "2025-06-10"))
}

func TestBuildCalendar(t *testing.T) {
	open := testDoctor()
	open.MaxAppointments = 10

	closed := testDoctor()
	closed.ID = "doc-2"
	closed.Name = "Dr. Santos"
	closed.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-06-10": {Available: false},
	}

	appts := []model.Appointment{
		{ID: "a1", DoctorID: "doc-1", Date: "2025-06-10", Time: "9:00 AM", Status: model.StatusConfirmed},
		{ID: "a2", DoctorID: "doc-1", Date: "2025-06-10", Time: "9:30 AM", Status: model.StatusPending},
		{ID: "a3", DoctorID: "doc-1", Date: "2025-06-10", Time: "10:00 AM", Status: model.StatusCancelled},
		{ID: "a4", DoctorID: "doc-2", Date: "2025-06-10", Time: "10:00 AM", Status: model.StatusConfirmed},
		{ID: "a5", DoctorID: "doc-1", Date: "2025-06-11", Time: "9:00 AM", Status: model.StatusConfirmed},
	}

	days := BuildCalendar([]model.Doctor{*open, *closed}, appts, DateRange("2025-06-10", "2025-06-11"))
	require.Len(t, days, 2)

	day := days[0]
	assert.Equal(t, "2025-06-10", day.Date)
	// Cancelled a3 does not count; a4 counts even though doc-2 is closed
	// for the day (the row exists regardless).
	assert.Equal(t, 3, day.Booked)
	// Only the open doctor contributes capacity.
	assert.Equal(t, 10, day.Capacity)

	require.Len(t, day.Doctors, 2)
	assert.True(t, day.Doctors[0].Available)
	assert.Equal(t, 2, day.Doctors[0].Booked)
	assert.Equal(t, 10, day.Doctors[0].Max)
	assert.False(t, day.Doctors[1].Available)
	assert.Equal(t, 1, day.Doctors[1].Booked)
	assert.Zero(t, day.Doctors[1].Max)

	next := days[1]
	assert.Equal(t, 1, next.Booked)
	assert.Equal(t, 20, next.Capacity) // both doctors open
}

func TestBuildCalendarEmpty(t *testing.T) {
	days := BuildCalendar(nil, nil, DateRange("2025-06-10", "2025-06-10"))
	require.Len(t, days, 1)
	assert.Zero(t, days[0].Booked)
	assert.Zero(t, days[0].Capacity)
	assert.Empty(t, days[0].Doctors)
}
