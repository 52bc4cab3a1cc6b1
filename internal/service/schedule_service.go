package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository"
	"github.com/timefly/timefly/internal/schedule"
)

// calendarCacheTTL keeps the calendar aggregate hot between bookings
// without serving stale counts for long.
const calendarCacheTTL = 60 * time.Second

// ScheduleService answers the read-side questions: which doctors are
// bookable on a date, which slots a doctor has, and what the calendar grid
// looks like. All computation is delegated to the schedule engine over
// snapshots read from the store.
type ScheduleService struct {
	doctorRepo   *repository.DoctorRepository
	apptRepo     *repository.AppointmentRepository
	overrideRepo *repository.OverrideRepository
	cache        *redis.Client
	location     *time.Location
	logger       *zap.Logger
}

func NewScheduleService(
	doctorRepo *repository.DoctorRepository,
	apptRepo *repository.AppointmentRepository,
	overrideRepo *repository.OverrideRepository,
	cache *redis.Client,
	location *time.Location,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		doctorRepo:   doctorRepo,
		apptRepo:     apptRepo,
		overrideRepo: overrideRepo,
		cache:        cache,
		location:     location,
		logger:       logger,
	}
}

// SlotsForDoctor generates the bookable slots for one doctor and date. A
// closed or unconfigured day yields an empty list, not an error.
func (s *ScheduleService) SlotsForDoctor(ctx context.Context, doctorID, date string, priority model.Priority, excludeID string) ([]model.TimeSlot, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appts, err := s.apptRepo.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	return schedule.Generate(doctor, date, appts, schedule.Options{
		Emergency: priority == model.PriorityEmergency,
		ExcludeID: excludeID,
		Now:       time.Now(),
		Location:  s.location,
	}), nil
}

// AvailableDoctors lists the doctors a patient can pick for a date: open per
// the resolver and not switched off by a per-date availability override.
func (s *ScheduleService) AvailableDoctors(ctx context.Context, date string) ([]model.Doctor, error) {
	doctors, err := s.doctorRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get doctors: %w", err)
	}

	overrides, err := s.overrideRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("get overrides: %w", err)
	}

	var available []model.Doctor
	for i := range doctors {
		doc := &doctors[i]
		if !schedule.Resolve(doc, date).Open {
			continue
		}
		if flag, ok := overrides[doc.ID]; ok && !flag {
			continue
		}
		available = append(available, *doc)
	}

	return available, nil
}

// Calendar computes the per-day DaySchedule aggregates for an inclusive
// date range, cached briefly in Redis.
func (s *ScheduleService) Calendar(ctx context.Context, from, to string) ([]model.DaySchedule, error) {
	dates := schedule.DateRange(from, to)
	if len(dates) == 0 {
		return nil, fmt.Errorf("invalid date range %q..%q", from, to)
	}

	cacheKey := "calendar:" + from + ":" + to
	if days, ok := s.cachedCalendar(ctx, cacheKey); ok {
		return days, nil
	}

	doctors, err := s.doctorRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get doctors: %w", err)
	}
	appts, err := s.apptRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	days := schedule.BuildCalendar(doctors, appts, dates)
	s.storeCalendar(ctx, cacheKey, days)
	return days, nil
}

func (s *ScheduleService) cachedCalendar(ctx context.Context, key string) ([]model.DaySchedule, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("calendar cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var days []model.DaySchedule
	if err := json.Unmarshal(payload, &days); err != nil {
		s.logger.Warn("calendar cache decode failed", zap.Error(err))
		return nil, false
	}
	return days, true
}

func (s *ScheduleService) storeCalendar(ctx context.Context, key string, days []model.DaySchedule) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(days)
	if err != nil {
		s.logger.Warn("calendar cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, calendarCacheTTL).Err(); err != nil {
		s.logger.Warn("calendar cache write failed", zap.Error(err))
	}
}
