package service

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken means another booking won the slot between the check and
	// the write. Expected under concurrency and retryable by the caller.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrSlotUnavailable means the requested time is not a bookable slot for
	// that doctor and date: outside hours, lunch, in the past, or an
	// emergency buffer requested without emergency priority.
	ErrSlotUnavailable = errors.New("slot not available")

	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrPriorityLocked means an edit tried to move an appointment to or from
	// emergency priority in place. That changes which slot window the booking
	// reserves, so it has to go through a reschedule.
	ErrPriorityLocked = errors.New("priority change requires rescheduling")
)
