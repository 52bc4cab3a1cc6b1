package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/timefly/timefly/internal/metrics"
	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/notify"
	"github.com/timefly/timefly/internal/repository"
	"github.com/timefly/timefly/internal/repository/base"
	"github.com/timefly/timefly/internal/schedule"
)

// BookingService creates, moves and cancels appointments. Every write that
// occupies a slot happens inside one transaction: re-check the slot against
// committed state, allocate the queue number, insert. The partial unique
// index backs the whole thing up, so losing a race surfaces as ErrSlotTaken
// rather than a double booking.
type BookingService struct {
	pool       *pgxpool.Pool
	doctorRepo *repository.DoctorRepository
	apptRepo   *repository.AppointmentRepository
	notifier   *notify.Notifier
	location   *time.Location
	logger     *zap.Logger
}

func NewBookingService(
	pool *pgxpool.Pool,
	doctorRepo *repository.DoctorRepository,
	apptRepo *repository.AppointmentRepository,
	notifier *notify.Notifier,
	location *time.Location,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:       pool,
		doctorRepo: doctorRepo,
		apptRepo:   apptRepo,
		notifier:   notifier,
		location:   location,
		logger:     logger,
	}
}

// BookingRequest carries everything a patient or staff booking supplies.
type BookingRequest struct {
	PatientName string
	Age         int
	Condition   string
	Date        string
	Time        string
	Priority    model.Priority
	DoctorID    string
	Email       string
	Phone       string
	PhotoURL    string
	BookedBy    model.BookedBy
}

// Book creates a new appointment on the requested slot.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	if req.PatientName == "" || req.Date == "" || req.Time == "" {
		return nil, fmt.Errorf("patient name, date and time are required")
	}
	if req.Priority == "" {
		req.Priority = model.PriorityNormal
	}
	if req.BookedBy == "" {
		req.BookedBy = model.BookedByPatient
	}

	doctor, err := s.doctorRepo.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	displayClock, storedClock, err := s.resolveSlot(ctx, doctor, req.Date, req.Time, req.Priority, "")
	if err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		ID:          uuid.NewString(),
		PatientName: req.PatientName,
		Age:         req.Age,
		Condition:   req.Condition,
		Date:        req.Date,
		Time:        storedClock,
		Status:      model.StatusPending,
		Priority:    req.Priority,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		PhotoURL:    req.PhotoURL,
		BookedBy:    req.BookedBy,
	}

	if err := s.insertBooked(ctx, doctor, appt, ""); err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("doctor_id", doctor.ID),
		zap.String("date", appt.Date),
		zap.String("display_time", displayClock),
		zap.String("stored_time", appt.Time),
		zap.String("priority", string(appt.Priority)),
		zap.Int("queue_number", appt.QueueNumber))
	metrics.BookingsTotal.WithLabelValues(string(appt.BookedBy), string(appt.Priority)).Inc()

	if s.notifier != nil {
		go s.notifier.BookingConfirmed(context.WithoutCancel(ctx), appt)
	}

	return appt, nil
}

// Appointments lists a day's appointments, optionally narrowed to one doctor.
func (s *BookingService) Appointments(ctx context.Context, date, doctorID string) ([]model.Appointment, error) {
	if doctorID != "" {
		return s.apptRepo.GetByDoctorAndDate(ctx, doctorID, date)
	}
	return s.apptRepo.GetByDate(ctx, date)
}

// EditRequest carries the patient-entered fields that can change after
// booking. Empty strings and zero values leave the stored field alone.
type EditRequest struct {
	PatientName string
	Age         int
	Condition   string
	Priority    model.Priority
	Email       string
	Phone       string
	PhotoURL    string
}

// UpdateDetails edits an appointment's patient-entered fields. The slot and
// the queue number never change here; moving an appointment is Reschedule's
// job.
func (s *BookingService) UpdateDetails(ctx context.Context, appointmentID string, req EditRequest) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.Status == model.StatusCancelled || appt.Status == model.StatusCompleted {
		return nil, ErrInvalidStatus
	}
	if req.Priority != "" && !priorityEditable(appt.Priority, req.Priority) {
		return nil, ErrPriorityLocked
	}

	if req.PatientName != "" {
		appt.PatientName = req.PatientName
	}
	if req.Age > 0 {
		appt.Age = req.Age
	}
	if req.Condition != "" {
		appt.Condition = req.Condition
	}
	if req.Priority != "" {
		appt.Priority = req.Priority
	}
	if req.Email != "" {
		appt.Email = req.Email
	}
	if req.Phone != "" {
		appt.Phone = req.Phone
	}
	if req.PhotoURL != "" {
		appt.PhotoURL = req.PhotoURL
	}

	if err := s.apptRepo.UpdateDetails(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info("appointment details updated", zap.String("appointment_id", appt.ID))
	return appt, nil
}

// Reschedule moves an existing appointment to a new date and time with the
// same doctor. The appointment being moved never blocks itself.
func (s *BookingService) Reschedule(ctx context.Context, appointmentID, date, clock string) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.Status == model.StatusCancelled || appt.Status == model.StatusCompleted {
		return nil, ErrInvalidStatus
	}

	doctor, err := s.doctorRepo.GetByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	_, storedClock, err := s.resolveSlot(ctx, doctor, date, clock, appt.Priority, appt.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	taken, err := s.apptRepo.ExistsAtSlotInTx(ctx, tx, doctor.ID, date, storedClock, appt.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.SlotConflictsTotal.Inc()
		return nil, ErrSlotTaken
	}

	queueNumber := appt.QueueNumber
	if movesDate(appt, date) {
		queueNumber, err = s.apptRepo.NextQueueNumberInTx(ctx, tx, date)
		if err != nil {
			return nil, err
		}
	}

	if err := s.apptRepo.RescheduleInTx(ctx, tx, appt.ID, doctor.ID, doctor.Name, date, storedClock, queueNumber); err != nil {
		if base.IsUniqueViolation(err) {
			metrics.SlotConflictsTotal.Inc()
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	appt.Date = date
	appt.Time = storedClock
	appt.QueueNumber = queueNumber

	s.logger.Info("appointment rescheduled",
		zap.String("appointment_id", appt.ID),
		zap.String("date", date),
		zap.String("time", storedClock),
		zap.Int("queue_number", queueNumber))

	if s.notifier != nil {
		go s.notifier.BookingConfirmed(context.WithoutCancel(ctx), appt)
	}

	return appt, nil
}

// Cancel soft-deletes the appointment; the row stays for history and the
// queue number is never reused.
func (s *BookingService) Cancel(ctx context.Context, appointmentID string) error {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return ErrAppointmentNotFound
	}
	if appt.Status == model.StatusCancelled {
		return nil
	}

	if err := s.apptRepo.UpdateStatus(ctx, appointmentID, model.StatusCancelled); err != nil {
		return err
	}

	s.logger.Info("appointment cancelled", zap.String("appointment_id", appointmentID))
	metrics.CancellationsTotal.Inc()

	appt.Status = model.StatusCancelled
	if s.notifier != nil {
		go s.notifier.BookingCancelled(context.WithoutCancel(ctx), appt)
	}

	return nil
}

// validTransitions lists the allowed status moves for the queue flow.
var validTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.StatusPending:    {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:  {model.StatusInProgress, model.StatusCancelled},
	model.StatusInProgress: {model.StatusCompleted, model.StatusCancelled},
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus applies a queue status transition.
func (s *BookingService) UpdateStatus(ctx context.Context, appointmentID string, status model.AppointmentStatus) error {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return ErrAppointmentNotFound
	}

	if !transitionAllowed(appt.Status, status) {
		return ErrInvalidStatus
	}

	if status == model.StatusCancelled {
		return s.Cancel(ctx, appointmentID)
	}
	return s.apptRepo.UpdateStatus(ctx, appointmentID, status)
}

func (s *BookingService) resolveSlot(ctx context.Context, doctor *model.Doctor, date, clock string, priority model.Priority, excludeID string) (string, string, error) {
	appts, err := s.apptRepo.GetByDoctorAndDate(ctx, doctor.ID, date)
	if err != nil {
		return "", "", fmt.Errorf("get appointments: %w", err)
	}
	return resolveSlotTime(doctor, date, clock, priority, excludeID, appts, time.Now(), s.location)
}

// resolveSlotTime validates the requested display time against the doctor's
// generated slots and returns both the display clock and the clock to store.
// Emergency bookings are shifted back by the doctor's buffer so the stored
// time reserves the preceding window; the same rule drives the generator's
// conflict marking, keeping the two sides consistent.
func resolveSlotTime(doctor *model.Doctor, date, clock string, priority model.Priority, excludeID string, appts []model.Appointment, now time.Time, loc *time.Location) (display, stored string, err error) {
	m, ok := schedule.ParseClock(clock)
	if !ok {
		return "", "", ErrSlotUnavailable
	}
	display = schedule.FormatClock(m)

	slots := schedule.Generate(doctor, date, appts, schedule.Options{
		Emergency: priority == model.PriorityEmergency,
		ExcludeID: excludeID,
		Now:       now,
		Location:  loc,
	})

	found := false
	for _, slot := range slots {
		if slot.Time == display {
			found = true
			if slot.Booked {
				return "", "", ErrSlotTaken
			}
			break
		}
	}
	if !found {
		return "", "", ErrSlotUnavailable
	}

	stored = display
	if priority == model.PriorityEmergency {
		stored = schedule.EmergencyTime(display, doctor.BufferTime)
	}
	return display, stored, nil
}

// priorityEditable reports whether the priority can change in place. A move
// to or from emergency changes which slot window the booking reserves (the
// stored time is buffer-shifted for emergencies), so it must go through a
// reschedule that re-resolves the time.
func priorityEditable(from, to model.Priority) bool {
	if from == to {
		return true
	}
	return from != model.PriorityEmergency && to != model.PriorityEmergency
}

// movesDate reports whether the reschedule crosses calendar days. Queue
// numbers are unique per date, so a cross-date move gets a fresh number on
// the target date; the old number is never reused.
func movesDate(appt *model.Appointment, date string) bool {
	return appt.Date != date
}

// insertBooked runs the atomic slot claim: conflict re-check, daily cap,
// queue number and insert all in one transaction.
func (s *BookingService) insertBooked(ctx context.Context, doctor *model.Doctor, appt *model.Appointment, excludeID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	taken, err := s.apptRepo.ExistsAtSlotInTx(ctx, tx, appt.DoctorID, appt.Date, appt.Time, excludeID)
	if err != nil {
		return err
	}
	if taken {
		metrics.SlotConflictsTotal.Inc()
		return ErrSlotTaken
	}

	plan := schedule.Resolve(doctor, appt.Date)
	if !plan.Open {
		return ErrSlotUnavailable
	}
	active, err := s.apptRepo.CountActiveInTx(ctx, tx, appt.DoctorID, appt.Date)
	if err != nil {
		return err
	}
	if active >= plan.MaxAppointments {
		return ErrSlotUnavailable
	}

	queueNumber, err := s.apptRepo.NextQueueNumberInTx(ctx, tx, appt.Date)
	if err != nil {
		return err
	}
	appt.QueueNumber = queueNumber

	if err := s.apptRepo.CreateInTx(ctx, tx, appt); err != nil {
		if base.IsUniqueViolation(err) {
			metrics.SlotConflictsTotal.Inc()
			return ErrSlotTaken
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
