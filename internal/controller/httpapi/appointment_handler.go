package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/service"
)

type AppointmentHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

type bookRequest struct {
	PatientName string `json:"patient_name"`
	Age         int    `json:"age"`
	Condition   string `json:"condition"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Priority    string `json:"priority"`
	DoctorID    string `json:"doctor_id"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PhotoURL    string `json:"photo_url"`
	BookedBy    string `json:"booked_by"`
}

// List returns the appointments for ?date=, optionally narrowed by ?doctor=.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeBadRequest(w, "date is required")
		return
	}

	appts, err := h.bookings.Appointments(r.Context(), date, r.URL.Query().Get("doctor"))
	if err != nil {
		h.logger.Error("list appointments failed", zap.Error(err))
		writeError(w, err)
		return
	}

	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid booking payload")
		return
	}

	appt, err := h.bookings.Book(r.Context(), service.BookingRequest{
		PatientName: req.PatientName,
		Age:         req.Age,
		Condition:   req.Condition,
		Date:        req.Date,
		Time:        req.Time,
		Priority:    model.Priority(req.Priority),
		DoctorID:    req.DoctorID,
		Email:       req.Email,
		Phone:       req.Phone,
		PhotoURL:    req.PhotoURL,
		BookedBy:    model.BookedBy(req.BookedBy),
	})
	if err != nil {
		h.logger.Info("booking rejected", zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// Edit updates the patient-entered fields without moving the slot.
func (h *AppointmentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientName string `json:"patient_name"`
		Age         int    `json:"age"`
		Condition   string `json:"condition"`
		Priority    string `json:"priority"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid appointment payload")
		return
	}

	appt, err := h.bookings.UpdateDetails(r.Context(), chi.URLParam(r, "appointmentID"), service.EditRequest{
		PatientName: req.PatientName,
		Age:         req.Age,
		Condition:   req.Condition,
		Priority:    model.Priority(req.Priority),
		Email:       req.Email,
		Phone:       req.Phone,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date == "" || req.Time == "" {
		writeBadRequest(w, "date and time are required")
		return
	}

	appt, err := h.bookings.Reschedule(r.Context(), chi.URLParam(r, "appointmentID"), req.Date, req.Time)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}

	id := chi.URLParam(r, "appointmentID")
	if err := h.bookings.UpdateStatus(r.Context(), id, model.AppointmentStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
