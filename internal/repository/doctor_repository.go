package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository/base"
)

type DoctorRepository struct {
	*base.Repository
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{Repository: base.NewRepository(pool)}
}

const doctorColumns = `
	id, name, specialty, available, buffer_time, max_appointments,
	consultation_duration, working_start, working_end, off_days, working_days,
	available_dates, unavailable_dates, schedule_settings, created_at, updated_at
`

// Create inserts a new doctor.
func (r *DoctorRepository) Create(ctx context.Context, doc *model.Doctor) error {
	settings, err := marshalSettings(doc.ScheduleSettings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO doctors (
			id, name, specialty, available, buffer_time, max_appointments,
			consultation_duration, working_start, working_end, off_days,
			working_days, available_dates, unavailable_dates, schedule_settings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err = r.QueryRow(
		ctx, query,
		doc.ID,
		doc.Name,
		doc.Specialty,
		doc.Available,
		doc.BufferTime,
		doc.MaxAppointments,
		doc.ConsultationDuration,
		doc.WorkingHours.Start,
		doc.WorkingHours.End,
		doc.OffDays,
		doc.WorkingDays,
		doc.AvailableDates,
		doc.UnavailableDates,
		settings,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	return nil
}

// GetByID returns one doctor, or nil when none exists.
func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	doc, err := scanDoctor(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor by id: %w", err)
	}

	return doc, nil
}

// GetAll returns every doctor ordered by name.
func (r *DoctorRepository) GetAll(ctx context.Context) ([]model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all doctors: %w", err)
	}
	defer rows.Close()

	var doctors []model.Doctor
	for rows.Next() {
		doc, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, *doc)
	}

	return doctors, rows.Err()
}

// Update rewrites every editable field of the doctor record.
func (r *DoctorRepository) Update(ctx context.Context, doc *model.Doctor) error {
	settings, err := marshalSettings(doc.ScheduleSettings)
	if err != nil {
		return err
	}

	query := `
		UPDATE doctors
		SET name = $2, specialty = $3, available = $4, buffer_time = $5,
			max_appointments = $6, consultation_duration = $7,
			working_start = $8, working_end = $9, off_days = $10,
			working_days = $11, available_dates = $12, unavailable_dates = $13,
			schedule_settings = $14, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(
		ctx, query,
		doc.ID,
		doc.Name,
		doc.Specialty,
		doc.Available,
		doc.BufferTime,
		doc.MaxAppointments,
		doc.ConsultationDuration,
		doc.WorkingHours.Start,
		doc.WorkingHours.End,
		doc.OffDays,
		doc.WorkingDays,
		doc.AvailableDates,
		doc.UnavailableDates,
		settings,
	)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("doctor not found")
	}

	return nil
}

// SetScheduleOverride stores or replaces one per-date override inside the
// doctor's schedule_settings document.
func (r *DoctorRepository) SetScheduleOverride(ctx context.Context, doctorID, date string, override model.ScheduleOverride) error {
	payload, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshal schedule override: %w", err)
	}

	query := `
		UPDATE doctors
		SET schedule_settings = jsonb_set(coalesce(schedule_settings, '{}'::jsonb), ARRAY[$2], $3::jsonb),
			updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, doctorID, date, payload)
	if err != nil {
		return fmt.Errorf("set schedule override: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("doctor not found")
	}

	return nil
}

func marshalSettings(settings map[string]model.ScheduleOverride) ([]byte, error) {
	if settings == nil {
		settings = map[string]model.ScheduleOverride{}
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule settings: %w", err)
	}
	return payload, nil
}

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var doc model.Doctor
	var settings []byte

	err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Specialty,
		&doc.Available,
		&doc.BufferTime,
		&doc.MaxAppointments,
		&doc.ConsultationDuration,
		&doc.WorkingHours.Start,
		&doc.WorkingHours.End,
		&doc.OffDays,
		&doc.WorkingDays,
		&doc.AvailableDates,
		&doc.UnavailableDates,
		&settings,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &doc.ScheduleSettings); err != nil {
			return nil, fmt.Errorf("unmarshal schedule settings: %w", err)
		}
	}

	return &doc, nil
}
