// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BookingsTotal counts successfully created appointments.
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timefly_bookings_total",
		Help: "Appointments booked, by origin and priority.",
	}, []string{"booked_by", "priority"})

	// SlotConflictsTotal counts bookings rejected because the slot was
	// already taken. A non-zero rate is normal under concurrent booking.
	SlotConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timefly_slot_conflicts_total",
		Help: "Bookings rejected by the write-time conflict check.",
	})

	// CancellationsTotal counts appointments moved to cancelled.
	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timefly_cancellations_total",
		Help: "Appointments cancelled.",
	})

	// RemindersSentTotal counts reminder notifications dispatched.
	RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timefly_reminders_sent_total",
		Help: "Day-before reminders dispatched.",
	})

	// DuplicateSlotsDetected counts invariant violations observed by the
	// queue computation. Should stay at zero; anything else needs operator
	// attention.
	DuplicateSlotsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timefly_duplicate_slots_detected_total",
		Help: "Non-cancelled appointments found sharing a slot.",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
