package model

// TimeSlot is a derived candidate booking time for one doctor on one date.
// It is produced fresh on every computation and never persisted.
type TimeSlot struct {
	Time      string `json:"time"` // "h:mm AM/PM"
	Available bool   `json:"available"`
	Booked    bool   `json:"booked"`
	Emergency bool   `json:"emergency"` // reachable only with emergency priority
}

// DoctorDayLoad is one doctor's share of a calendar day.
type DoctorDayLoad struct {
	DoctorID  string `json:"doctor_id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Booked    int    `json:"booked"`
	Max       int    `json:"max"`
}

// DaySchedule is the derived per-day aggregate behind the calendar grid.
type DaySchedule struct {
	Date     string          `json:"date"`
	Booked   int             `json:"booked"`
	Capacity int             `json:"capacity"`
	Doctors  []DoctorDayLoad `json:"doctors"`
}
