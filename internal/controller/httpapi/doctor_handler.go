package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/service"
)

type DoctorHandler struct {
	doctors   *service.DoctorService
	schedules *service.ScheduleService
	logger    *zap.Logger
}

// List returns all doctors, or only the bookable ones when ?date= is given.
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		doctors, err := h.schedules.AvailableDoctors(r.Context(), date)
		if err != nil {
			h.logger.Error("list available doctors failed", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
		return
	}

	doctors, err := h.doctors.List(r.Context())
	if err != nil {
		h.logger.Error("list doctors failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.doctors.Get(r.Context(), chi.URLParam(r, "doctorID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid doctor payload")
		return
	}

	created, err := h.doctors.Create(r.Context(), &doc)
	if err != nil {
		h.logger.Error("create doctor failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var doc model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid doctor payload")
		return
	}
	doc.ID = chi.URLParam(r, "doctorID")

	updated, err := h.doctors.Update(r.Context(), &doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetScheduleOverride stores a per-date schedule override for the doctor.
func (h *DoctorHandler) SetScheduleOverride(w http.ResponseWriter, r *http.Request) {
	var override model.ScheduleOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		writeBadRequest(w, "invalid override payload")
		return
	}

	doctorID := chi.URLParam(r, "doctorID")
	date := chi.URLParam(r, "date")
	if err := h.doctors.SetScheduleOverride(r.Context(), doctorID, date, override); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SetAvailabilityOverride flips the per-date flag used by the doctor list.
func (h *DoctorHandler) SetAvailabilityOverride(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Available *bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Available == nil {
		writeBadRequest(w, "available flag is required")
		return
	}

	doctorID := chi.URLParam(r, "doctorID")
	date := chi.URLParam(r, "date")
	if err := h.doctors.SetAvailabilityOverride(r.Context(), doctorID, date, *body.Available); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
