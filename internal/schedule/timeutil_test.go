package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"9:00 AM", 540, true},
		{"09:00", 540, true},
		{"12:00 PM", 720, true},
		{"12:00 AM", 0, true},
		{"12:30 am", 30, true},
		{"4:45 PM", 1005, true},
		{"17:30", 1050, true},
		{"  10:15 AM ", 615, true},
		{"", 0, false},
		{"25:00", 0, false},
		{"noonish", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseClock(%q) ok", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "ParseClock(%q)", tt.in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "9:00 AM", FormatClock(540))
	assert.Equal(t, "12:00 PM", FormatClock(720))
	assert.Equal(t, "12:00 AM", FormatClock(0))
	assert.Equal(t, "4:45 PM", FormatClock(1005))
	assert.Equal(t, "11:59 PM", FormatClock(1439))
}

func TestFormatClockRoundTrip(t *testing.T) {
	for m := 0; m < minutesPerDay; m += 15 {
		got, ok := ParseClock(FormatClock(m))
		require.True(t, ok)
		require.Equal(t, m, got)
	}
}

func TestWeekdayName(t *testing.T) {
	name, ok := WeekdayName("2025-06-10")
	require.True(t, ok)
	assert.Equal(t, "Tuesday", name)

	_, ok = WeekdayName("june tenth")
	assert.False(t, ok)
}

func TestDateOfUsesLocation(t *testing.T) {
	manila := ClinicLocation("")
	// 2025-06-09 20:30 UTC is already 2025-06-10 in Manila (UTC+8).
	instant := time.Date(2025, 6, 9, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", DateOf(instant, manila))
	assert.Equal(t, 4*60+30, MinutesOfDay(instant, manila))
}

func TestClinicLocationFallback(t *testing.T) {
	loc := ClinicLocation("Not/AZone")
	require.NotNil(t, loc)
	instant := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8*60, MinutesOfDay(instant, loc))
}
