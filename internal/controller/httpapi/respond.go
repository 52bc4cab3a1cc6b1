package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/timefly/timefly/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto HTTP statuses. A taken slot is a
// conflict the client is expected to retry with a fresh slot list.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDoctorNotFound),
		errors.Is(err, service.ErrAppointmentNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSlotTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrPriorityLocked):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
