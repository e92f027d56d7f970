package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// ServiceRecordRepo implements ports.ServiceRecordRepository with pgx.
type ServiceRecordRepo struct {
	db *DB
}

// NewServiceRecordRepo creates a new ServiceRecordRepo.
func NewServiceRecordRepo(db *DB) *ServiceRecordRepo {
	return &ServiceRecordRepo{db: db}
}

const recordColumns = `id, kind, COALESCE(provider, ''), animal_id, zone_id,
	       cost_cents, performed_at, COALESCE(notes, ''), created_at`

// Create inserts a service record.
func (r *ServiceRecordRepo) Create(ctx context.Context, rec *domain.ServiceRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO service_records (id, kind, provider, animal_id, zone_id, cost_cents, performed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.Kind, rec.Provider, rec.AnimalID, rec.ZoneID, rec.CostCents, rec.PerformedAt, rec.Notes)
	return err
}

// GetByID returns a record by UUID, or nil when it does not exist.
func (r *ServiceRecordRepo) GetByID(ctx context.Context, id string) (*domain.ServiceRecord, error) {
	var rec domain.ServiceRecord
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM service_records WHERE id = $1
	`, id).Scan(
		&rec.ID, &rec.Kind, &rec.Provider, &rec.AnimalID, &rec.ZoneID,
		&rec.CostCents, &rec.PerformedAt, &rec.Notes, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns records newest first. Empty animalID or zoneID means no
// filter; a zero since means no time bound.
func (r *ServiceRecordRepo) List(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error) {
	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM service_records
		WHERE ($1 = '' OR animal_id::text = $1)
		  AND ($2 = '' OR zone_id::text = $2)
		  AND ($3::timestamptz IS NULL OR performed_at >= $3)
		ORDER BY performed_at DESC
	`, animalID, zoneID, sinceArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ServiceRecord
	for rows.Next() {
		var rec domain.ServiceRecord
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.Provider, &rec.AnimalID, &rec.ZoneID,
			&rec.CostCents, &rec.PerformedAt, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a service record.
func (r *ServiceRecordRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM service_records WHERE id = $1`, id)
	return err
}
