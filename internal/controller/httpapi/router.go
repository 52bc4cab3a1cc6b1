// Package httpapi is the HTTP transport over the scheduling services.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/metrics"
	"github.com/timefly/timefly/internal/service"
)

// Config wires the router's dependencies.
type Config struct {
	DoctorService   *service.DoctorService
	ScheduleService *service.ScheduleService
	BookingService  *service.BookingService
	QueueService    *service.QueueService
	Logger          *zap.Logger
}

// New builds the chi router with all routes configured.
func New(cfg Config) http.Handler {
	doctors := &DoctorHandler{doctors: cfg.DoctorService, schedules: cfg.ScheduleService, logger: cfg.Logger}
	appointments := &AppointmentHandler{bookings: cfg.BookingService, logger: cfg.Logger}
	schedules := &ScheduleHandler{schedules: cfg.ScheduleService, logger: cfg.Logger}
	queue := &QueueHandler{queue: cfg.QueueService, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/doctors", func(r chi.Router) {
			r.Get("/", doctors.List)
			r.Post("/", doctors.Create)
			r.Route("/{doctorID}", func(r chi.Router) {
				r.Get("/", doctors.Get)
				r.Put("/", doctors.Update)
				r.Get("/slots", schedules.Slots)
				r.Put("/schedule/{date}", doctors.SetScheduleOverride)
				r.Put("/availability/{date}", doctors.SetAvailabilityOverride)
			})
		})

		api.Get("/calendar", schedules.Calendar)
		api.Get("/queue", queue.DayQueue)

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", appointments.List)
			r.Post("/", appointments.Book)
			r.Route("/{appointmentID}", func(r chi.Router) {
				r.Put("/", appointments.Edit)
				r.Put("/reschedule", appointments.Reschedule)
				r.Put("/status", appointments.UpdateStatus)
				r.Post("/cancel", appointments.Cancel)
			})
		})
	})

	return r
}

// requestLogger logs one line per request after it completes.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
