package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/metrics"
	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/notify"
	"github.com/timefly/timefly/internal/repository"
)

// ReminderScheduler sends next-day appointment reminders on a cron schedule
// evaluated in the clinic's timezone.
type ReminderScheduler struct {
	cron     *cron.Cron
	apptRepo *repository.AppointmentRepository
	notifier *notify.Notifier
	location *time.Location
	logger   *zap.Logger
}

func NewReminderScheduler(
	apptRepo *repository.AppointmentRepository,
	notifier *notify.Notifier,
	location *time.Location,
	logger *zap.Logger,
) *ReminderScheduler {
	return &ReminderScheduler{
		cron:     cron.New(cron.WithLocation(location)),
		apptRepo: apptRepo,
		notifier: notifier,
		location: location,
		logger:   logger,
	}
}

// Start registers the reminder job and starts the cron loop.
func (s *ReminderScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("reminder scheduler started", zap.String("spec", spec))
	return nil
}

// Stop waits for any in-flight job before returning.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce sends reminders for tomorrow's still-active appointments.
func (s *ReminderScheduler) RunOnce(ctx context.Context) {
	tomorrow := time.Now().In(s.location).AddDate(0, 0, 1).Format("2006-01-02")

	appts, err := s.apptRepo.GetByDate(ctx, tomorrow)
	if err != nil {
		s.logger.Error("reminder run failed to load appointments",
			zap.String("date", tomorrow),
			zap.Error(err))
		return
	}

	sent := 0
	for i := range appts {
		a := &appts[i]
		if a.Status != model.StatusPending && a.Status != model.StatusConfirmed {
			continue
		}
		s.notifier.Reminder(ctx, a)
		metrics.RemindersSentTotal.Inc()
		sent++
	}

	s.logger.Info("reminder run complete",
		zap.String("date", tomorrow),
		zap.Int("sent", sent))
}
