package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/metrics"
	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository"
	"github.com/timefly/timefly/internal/schedule"
)

// QueueSnapshot is one computation of the day's serving order.
type QueueSnapshot struct {
	Date         string              `json:"date"`
	Appointments []model.Appointment `json:"appointments"`
	Serving      *model.Appointment  `json:"serving,omitempty"`
	UpNext       *model.Appointment  `json:"up_next,omitempty"`
}

// QueueService computes the live priority queue for a day.
type QueueService struct {
	apptRepo *repository.AppointmentRepository
	logger   *zap.Logger
}

func NewQueueService(apptRepo *repository.AppointmentRepository, logger *zap.Logger) *QueueService {
	return &QueueService{
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// DayQueue ranks a day's appointments into serving order. Duplicate slot
// occupancy should be impossible given the booking transaction; when it
// shows up anyway it is flagged for the operators and the queue is computed
// as if only the earliest booking held the slot's place.
func (s *QueueService) DayQueue(ctx context.Context, date string) (*QueueSnapshot, error) {
	appts, err := s.apptRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	if extras := schedule.Duplicates(appts, date); len(extras) > 0 {
		for _, dup := range extras {
			s.logger.Error("duplicate slot occupancy detected",
				zap.String("appointment_id", dup.ID),
				zap.String("doctor_id", dup.DoctorID),
				zap.String("date", dup.Date),
				zap.String("time", dup.Time))
		}
		metrics.DuplicateSlotsDetected.Add(float64(len(extras)))
	}

	ranked := schedule.Rank(appts, date)
	return &QueueSnapshot{
		Date:         date,
		Appointments: ranked,
		Serving:      schedule.Serving(ranked),
		UpNext:       schedule.UpNext(ranked),
	}, nil
}
