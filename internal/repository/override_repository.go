package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/timefly/timefly/internal/model"
	"github.com/timefly/timefly/internal/repository/base"
)

// OverrideRepository stores the per-date availability flags kept separately
// from the doctors' schedule settings. Only the patient-facing doctor list
// consults these.
type OverrideRepository struct {
	*base.Repository
}

func NewOverrideRepository(pool *pgxpool.Pool) *OverrideRepository {
	return &OverrideRepository{Repository: base.NewRepository(pool)}
}

// Upsert stores or replaces the flag for (doctorID, date).
func (r *OverrideRepository) Upsert(ctx context.Context, o *model.AvailabilityOverride) error {
	query := `
		INSERT INTO doctor_availability (doctor_id, for_date, available)
		VALUES ($1, $2, $3)
		ON CONFLICT (doctor_id, for_date)
		DO UPDATE SET available = EXCLUDED.available, updated_at = now()
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, o.DoctorID, o.Date, o.Available).Scan(&o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert availability override: %w", err)
	}

	return nil
}

// GetByDate returns every override for a date keyed by doctor id.
func (r *OverrideRepository) GetByDate(ctx context.Context, date string) (map[string]bool, error) {
	query := `
		SELECT doctor_id, available
		FROM doctor_availability
		WHERE for_date = $1
	`

	rows, err := r.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get overrides by date: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]bool)
	for rows.Next() {
		var doctorID string
		var available bool
		if err := rows.Scan(&doctorID, &available); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides[doctorID] = available
	}

	return overrides, rows.Err()
}
