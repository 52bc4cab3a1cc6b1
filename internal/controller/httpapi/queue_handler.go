package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/service"
)

type QueueHandler struct {
	queue  *service.QueueService
	logger *zap.Logger
}

// DayQueue returns the ranked queue for ?date=, with the currently-serving
// and up-next appointments called out.
func (h *QueueHandler) DayQueue(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeBadRequest(w, "date is required")
		return
	}

	snapshot, err := h.queue.DayQueue(r.Context(), date)
	if err != nil {
		h.logger.Error("day queue failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
