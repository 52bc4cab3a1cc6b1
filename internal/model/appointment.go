package model

import "time"

type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// Weight orders priorities for queue ranking; higher serves first.
func (p Priority) Weight() int {
	switch p {
	case PriorityEmergency:
		return 3
	case PriorityUrgent:
		return 2
	default:
		return 1
	}
}

type BookedBy string

const (
	BookedByPatient BookedBy = "patient"
	BookedByStaff   BookedBy = "staff"
)

type Appointment struct {
	ID          string `json:"id"`
	PatientName string `json:"patient_name"`
	Age         int    `json:"age"`
	Condition   string `json:"condition"`

	Date string `json:"date"` // ISO yyyy-mm-dd
	Time string `json:"time"` // 12-hour "h:mm AM/PM", the on-the-wire form

	Status   AppointmentStatus `json:"status"`
	Priority Priority          `json:"priority"`

	DoctorID   string `json:"doctor_id"`
	DoctorName string `json:"doctor_name"` // denormalized for display

	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url,omitempty"`

	// QueueNumber is assigned once at booking time, strictly increasing per
	// date, never reassigned. 0 means not assigned.
	QueueNumber int `json:"queue_number"`

	BookedBy BookedBy `json:"booked_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}
