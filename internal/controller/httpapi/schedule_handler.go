package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/service"
)

type ScheduleHandler struct {
	schedules *service.ScheduleService
	logger    *zap.Logger
}

// Slots returns the bookable slots for a doctor and date. ?priority=emergency
// unlocks the emergency buffer slots; ?exclude= frees the slot held by the
// appointment being rescheduled.
func (h *ScheduleHandler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeBadRequest(w, "date is required")
		return
	}

	slots, err := h.schedules.SlotsForDoctor(
		r.Context(),
		chi.URLParam(r, "doctorID"),
		date,
		model.Priority(r.URL.Query().Get("priority")),
		r.URL.Query().Get("exclude"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if slots == nil {
		slots = []model.TimeSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// Calendar returns the per-day aggregates for ?from=..&to=.. inclusive.
func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeBadRequest(w, "from and to are required")
		return
	}

	days, err := h.schedules.Calendar(r.Context(), from, to)
	if err != nil {
		h.logger.Error("calendar failed", zap.Error(err))
		writeBadRequest(w, "invalid date range")
		return
	}
	writeJSON(w, http.StatusOK, days)
}
