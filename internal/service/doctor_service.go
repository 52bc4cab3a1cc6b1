package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository"
	"github.com/timefly/timefly/internal/schedule"
)

// DoctorService covers the staff-side doctor administration.
type DoctorService struct {
	doctorRepo   *repository.DoctorRepository
	overrideRepo *repository.OverrideRepository
	logger       *zap.Logger
}

func NewDoctorService(
	doctorRepo *repository.DoctorRepository,
	overrideRepo *repository.OverrideRepository,
	logger *zap.Logger,
) *DoctorService {
	return &DoctorService{
		doctorRepo:   doctorRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// Create registers a new doctor with sane defaults where the request left
// gaps.
func (s *DoctorService) Create(ctx context.Context, doc *model.Doctor) (*model.Doctor, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("doctor name is required")
	}

	doc.ID = uuid.NewString()
	if doc.MaxAppointments <= 0 {
		doc.MaxAppointments = schedule.DefaultMaxAppointments
	}
	if doc.ConsultationDuration <= 0 {
		doc.ConsultationDuration = schedule.SlotInterval
	}

	if err := s.doctorRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("doctor created",
		zap.String("doctor_id", doc.ID),
		zap.String("name", doc.Name))
	return doc, nil
}

// Update rewrites a doctor record.
func (s *DoctorService) Update(ctx context.Context, doc *model.Doctor) (*model.Doctor, error) {
	existing, err := s.doctorRepo.GetByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrDoctorNotFound
	}

	if err := s.doctorRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("doctor updated", zap.String("doctor_id", doc.ID))
	return doc, nil
}

// Get returns one doctor.
func (s *DoctorService) Get(ctx context.Context, id string) (*model.Doctor, error) {
	doc, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDoctorNotFound
	}
	return doc, nil
}

// List returns every doctor.
func (s *DoctorService) List(ctx context.Context) ([]model.Doctor, error) {
	return s.doctorRepo.GetAll(ctx)
}

// SetScheduleOverride stores a per-date schedule override on the doctor
// record; it supersedes the weekly pattern for that date.
func (s *DoctorService) SetScheduleOverride(ctx context.Context, doctorID, date string, override model.ScheduleOverride) error {
	if _, ok := schedule.ParseDate(date); !ok {
		return fmt.Errorf("invalid date %q", date)
	}

	doc, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDoctorNotFound
	}

	if err := s.doctorRepo.SetScheduleOverride(ctx, doctorID, date, override); err != nil {
		return err
	}

	s.logger.Info("schedule override set",
		zap.String("doctor_id", doctorID),
		zap.String("date", date),
		zap.Bool("available", override.Available))
	return nil
}

// SetAvailabilityOverride stores the per-date flag that the patient-facing
// doctor list consults.
func (s *DoctorService) SetAvailabilityOverride(ctx context.Context, doctorID, date string, available bool) error {
	if _, ok := schedule.ParseDate(date); !ok {
		return fmt.Errorf("invalid date %q", date)
	}

	doc, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDoctorNotFound
	}

	return s.overrideRepo.Upsert(ctx, &model.AvailabilityOverride{
		DoctorID:  doctorID,
		Date:      date,
		Available: available,
	})
}
