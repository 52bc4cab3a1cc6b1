package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timefly/timefly/internal/model"
)

func testDoctor() *model.Doctor {
	return &model.Doctor{
		ID:                   "doc-1",
		Name:                 "Dr. Reyes",
		Available:            true,
		BufferTime:           15,
		MaxAppointments:      10,
		ConsultationDuration: 15,
		WorkingHours:         model.WorkingHours{Start: "09:00", End: "17:00"},
	}
}

func TestResolveDefaults(t *testing.T) {
	plan := Resolve(testDoctor(), "2025-06-10")
	require.True(t, plan.Open)
	assert.Equal(t, 540, plan.Start)
	assert.Equal(t, 1020, plan.End)
	assert.Equal(t, 10, plan.MaxAppointments)
}

func TestResolveGlobalSwitchWins(t *testing.T) {
	doc := testDoctor()
	doc.Available = false
	doc.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-06-10": {Available: true},
	}
	assert.False(t, Resolve(doc, "2025-06-10").Open)
}

func TestResolveOverrideClosesDay(t *testing.T) {
	// Doctor is available every day, but a per-date override closes Christmas.
	doc := testDoctor()
	doc.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-12-25": {Available: false},
	}
	assert.False(t, Resolve(doc, "2025-12-25").Open)
	assert.True(t, Resolve(doc, "2025-12-24").Open)
}

func TestResolveOverrideSupersedesOffDay(t *testing.T) {
	doc := testDoctor()
	doc.OffDays = []string{"2025-06-10"}
	doc.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-06-10": {Available: true},
	}
	assert.True(t, Resolve(doc, "2025-06-10").Open)
}

func TestResolveOverrideCustomHoursAndCap(t *testing.T) {
	dayCap := 3
	doc := testDoctor()
	doc.ScheduleSettings = map[string]model.ScheduleOverride{
		"2025-06-10": {
			Available:       true,
			CustomHours:     &model.WorkingHours{Start: "13:00", End: "15:00"},
			MaxAppointments: &dayCap,
		},
	}
	plan := Resolve(doc, "2025-06-10")
	require.True(t, plan.Open)
	assert.Equal(t, 780, plan.Start)
	assert.Equal(t, 900, plan.End)
	assert.Equal(t, 3, plan.MaxAppointments)
}

func TestResolveFallbackChain(t *testing.T) {
	t.Run("off day closes", func(t *testing.T) {
		doc := testDoctor()
		doc.OffDays = []string{"2025-06-10"}
		assert.False(t, Resolve(doc, "2025-06-10").Open)
	})

	t.Run("working days restrict weekdays", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingDays = []string{"Monday", "Tuesday"}
		assert.True(t, Resolve(doc, "2025-06-10").Open)  // Tuesday
		assert.False(t, Resolve(doc, "2025-06-11").Open) // Wednesday
	})

	t.Run("working day names are case-insensitive", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingDays = []string{"tuesday"}
		assert.True(t, Resolve(doc, "2025-06-10").Open)
	})

	t.Run("allow list restricts dates", func(t *testing.T) {
		doc := testDoctor()
		doc.AvailableDates = []string{"2025-06-10"}
		assert.True(t, Resolve(doc, "2025-06-10").Open)
		assert.False(t, Resolve(doc, "2025-06-11").Open)
	})

	t.Run("deny list closes", func(t *testing.T) {
		doc := testDoctor()
		doc.UnavailableDates = []string{"2025-06-10"}
		assert.False(t, Resolve(doc, "2025-06-10").Open)
	})
}

func TestResolveConfigurationGaps(t *testing.T) {
	t.Run("nil doctor", func(t *testing.T) {
		assert.False(t, Resolve(nil, "2025-06-10").Open)
	})

	t.Run("missing hours close the day", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingHours = model.WorkingHours{}
		assert.False(t, Resolve(doc, "2025-06-10").Open)
	})

	t.Run("inverted hours close the day", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingHours = model.WorkingHours{Start: "17:00", End: "09:00"}
		assert.False(t, Resolve(doc, "2025-06-10").Open)
	})

	t.Run("malformed date with working days set", func(t *testing.T) {
		doc := testDoctor()
		doc.WorkingDays = []string{"Tuesday"}
		assert.False(t, Resolve(doc, "not-a-date").Open)
	})

	t.Run("missing cap falls back to default", func(t *testing.T) {
		doc := testDoctor()
		doc.MaxAppointments = 0
		plan := Resolve(doc, "2025-06-10")
		require.True(t, plan.Open)
		assert.Equal(t, DefaultMaxAppointments, plan.MaxAppointments)
	})
}
