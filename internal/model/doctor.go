package model

import "time"

// WorkingHours is a daily working window in 24-hour "HH:MM" wall-clock time.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleOverride is a per-date exception to a doctor's default schedule.
// When an override exists for a date it fully supersedes the off-day /
// working-day / date-list checks for that date.
type ScheduleOverride struct {
	Available       bool          `json:"available"`
	CustomHours     *WorkingHours `json:"custom_hours,omitempty"`
	MaxAppointments *int          `json:"max_appointments,omitempty"`
}

type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`

	// Available is the global on/off switch; it wins over everything else.
	Available bool `json:"available"`

	BufferTime           int          `json:"buffer_time"`           // minutes reserved around a consultation
	MaxAppointments      int          `json:"max_appointments"`      // default daily cap
	ConsultationDuration int          `json:"consultation_duration"` // minutes
	WorkingHours         WorkingHours `json:"working_hours"`

	OffDays          []string `json:"off_days"`          // ISO dates the doctor is fully closed
	WorkingDays      []string `json:"working_days"`      // weekday names; empty means all days
	AvailableDates   []string `json:"available_dates"`   // explicit allow list; empty means all dates
	UnavailableDates []string `json:"unavailable_dates"` // explicit deny list

	// ScheduleSettings maps ISO date -> per-date override.
	ScheduleSettings map[string]ScheduleOverride `json:"schedule_settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityOverride is the finer-grained per-date availability flag kept
// in its own collection. It only filters the patient-facing doctor list and
// never feeds slot generation.
type AvailabilityOverride struct {
	DoctorID  string    `json:"doctor_id"`
	Date      string    `json:"date"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}
