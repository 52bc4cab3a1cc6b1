package schedule

import (
	"sort"

	"github.com/timefly/timefly/internal/model"
)

// queueStatuses are the states that place an appointment in the live queue.
var queueStatuses = map[model.AppointmentStatus]bool{
	model.StatusPending:    true,
	model.StatusConfirmed:  true,
	model.StatusInProgress: true,
}

// Rank produces the total serving order for one day's queue: priority weight
// descending, then queue number ascending (missing numbers sort last), then
// normalized time ascending, then id as the final tie-break so the order is
// a pure function of the set and not of input order. The input slice is not
// modified.
func Rank(appts []model.Appointment, date string) []model.Appointment {
	var ranked []model.Appointment
	for i := range appts {
		a := &appts[i]
		if a.Date == date && queueStatuses[a.Status] {
			ranked = append(ranked, *a)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if wa, wb := a.Priority.Weight(), b.Priority.Weight(); wa != wb {
			return wa > wb
		}
		if qa, qb := queueOrdinal(a), queueOrdinal(b); qa != qb {
			return qa < qb
		}
		if ta, tb := timeOrdinal(a), timeOrdinal(b); ta != tb {
			return ta < tb
		}
		return a.ID < b.ID
	})
	return ranked
}

// Serving returns the appointment currently being served: the head of the
// ranked order.
func Serving(ranked []model.Appointment) *model.Appointment {
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// UpNext returns the appointment after the one being served.
func UpNext(ranked []model.Appointment) *model.Appointment {
	if len(ranked) < 2 {
		return nil
	}
	return &ranked[1]
}

// queueOrdinal treats a missing queue number as +inf so unnumbered
// appointments sort after numbered ones.
func queueOrdinal(a *model.Appointment) int {
	if a.QueueNumber <= 0 {
		return int(^uint(0) >> 1)
	}
	return a.QueueNumber
}

// timeOrdinal sorts unparseable times last.
func timeOrdinal(a *model.Appointment) int {
	m, ok := ParseClock(a.Time)
	if !ok {
		return minutesPerDay
	}
	return m
}
