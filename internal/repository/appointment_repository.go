package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

const appointmentColumns = `
	id, patient_name, age, condition, appt_date, slot_time, status, priority,
	doctor_id, doctor_name, email, phone, photo_url, queue_number, booked_by,
	created_at, updated_at
`

// CreateInTx inserts the appointment inside the caller's transaction. The
// partial unique index on (doctor_id, appt_date, slot_time) for non-cancelled
// rows makes a lost booking race surface here as a unique violation.
func (r *AppointmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_name, age, condition, appt_date, slot_time, status,
			priority, doctor_id, doctor_name, email, phone, photo_url,
			queue_number, booked_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		a.ID,
		a.PatientName,
		a.Age,
		a.Condition,
		a.Date,
		a.Time,
		a.Status,
		a.Priority,
		a.DoctorID,
		a.DoctorName,
		a.Email,
		a.Phone,
		a.PhotoURL,
		a.QueueNumber,
		a.BookedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// NextQueueNumberInTx allocates the next queue number for a date from the
// per-date counter row. Running it in the booking transaction keeps the
// sequence strictly increasing with no reuse, even when two clients book the
// same date at once.
func (r *AppointmentRepository) NextQueueNumberInTx(ctx context.Context, tx pgx.Tx, date string) (int, error) {
	query := `
		INSERT INTO queue_counters (for_date, next_number)
		VALUES ($1, 1)
		ON CONFLICT (for_date)
		DO UPDATE SET next_number = queue_counters.next_number + 1
		RETURNING next_number
	`

	var n int
	if err := tx.QueryRow(ctx, query, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("next queue number: %w", err)
	}

	return n, nil
}

// ExistsAtSlotInTx re-checks the slot against the latest committed state
// immediately before the insert.
func (r *AppointmentRepository) ExistsAtSlotInTx(ctx context.Context, tx pgx.Tx, doctorID, date, clock, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND appt_date = $2 AND slot_time = $3
				AND status <> 'cancelled' AND id <> $4
		)
	`

	var exists bool
	if err := tx.QueryRow(ctx, query, doctorID, date, clock, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot occupancy: %w", err)
	}

	return exists, nil
}

// CountActiveInTx counts a doctor's non-cancelled appointments on a date,
// for daily-cap enforcement inside the booking transaction.
func (r *AppointmentRepository) CountActiveInTx(ctx context.Context, tx pgx.Tx, doctorID, date string) (int, error) {
	query := `
		SELECT count(*) FROM appointments
		WHERE doctor_id = $1 AND appt_date = $2 AND status <> 'cancelled'
	`

	var n int
	if err := tx.QueryRow(ctx, query, doctorID, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active appointments: %w", err)
	}

	return n, nil
}

// RescheduleInTx moves an appointment to a new doctor/date/time triple
// inside the caller's transaction. The caller supplies the queue number: the
// existing one when the date is unchanged, a freshly allocated one for a
// cross-date move.
func (r *AppointmentRepository) RescheduleInTx(ctx context.Context, tx pgx.Tx, id, doctorID, doctorName, date, clock string, queueNumber int) error {
	query := `
		UPDATE appointments
		SET doctor_id = $2, doctor_name = $3, appt_date = $4, slot_time = $5,
			queue_number = $6, updated_at = now()
		WHERE id = $1 AND status <> 'cancelled'
	`

	tag, err := tx.Exec(ctx, query, id, doctorID, doctorName, date, clock, queueNumber)
	if err != nil {
		return fmt.Errorf("reschedule appointment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// GetByID returns one appointment, or nil when none exists.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// GetByDate returns every appointment on a date, cancelled included; the
// engine decides what counts.
func (r *AppointmentRepository) GetByDate(ctx context.Context, date string) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appt_date = $1
		ORDER BY created_at
	`

	return r.queryAppointments(ctx, query, date)
}

// GetByDoctorAndDate returns a doctor's appointments on a date.
func (r *AppointmentRepository) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND appt_date = $2
		ORDER BY created_at
	`

	return r.queryAppointments(ctx, query, doctorID, date)
}

// GetByDateRange returns appointments within an inclusive date range.
func (r *AppointmentRepository) GetByDateRange(ctx context.Context, from, to string) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appt_date BETWEEN $1 AND $2
		ORDER BY appt_date, created_at
	`

	return r.queryAppointments(ctx, query, from, to)
}

// UpdateStatus transitions an appointment's status.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// UpdateDetails edits the patient-entered fields without touching the slot.
func (r *AppointmentRepository) UpdateDetails(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_name = $2, age = $3, condition = $4, priority = $5,
			email = $6, phone = $7, photo_url = $8, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(
		ctx, query,
		a.ID,
		a.PatientName,
		a.Age,
		a.Condition,
		a.Priority,
		a.Email,
		a.Phone,
		a.PhotoURL,
	)
	if err != nil {
		return fmt.Errorf("update appointment details: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *AppointmentRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, *a)
	}

	return appts, rows.Err()
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	var date time.Time

	err := row.Scan(
		&a.ID,
		&a.PatientName,
		&a.Age,
		&a.Condition,
		&date,
		&a.Time,
		&a.Status,
		&a.Priority,
		&a.DoctorID,
		&a.DoctorName,
		&a.Email,
		&a.Phone,
		&a.PhotoURL,
		&a.QueueNumber,
		&a.BookedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date = date.Format("2006-01-02")
	return &a, nil
}
