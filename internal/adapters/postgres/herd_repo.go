package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// HerdRepo implements ports.HerdRepository with pgx. Headcount is
// computed from active animals on every read.
type HerdRepo struct {
	db *DB
}

// NewHerdRepo creates a new HerdRepo.
func NewHerdRepo(db *DB) *HerdRepo {
	return &HerdRepo{db: db}
}

const herdSelect = `
	SELECT h.id, h.name, h.species, h.zone_id, COALESCE(h.notes, ''), h.created_at,
	       COUNT(a.id) FILTER (WHERE a.status = 'active') AS headcount
	FROM herds h
	LEFT JOIN animals a ON a.herd_id = h.id
`

// Create inserts a herd.
func (r *HerdRepo) Create(ctx context.Context, h *domain.Herd) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO herds (id, name, species, zone_id, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, h.ID, h.Name, h.Species, h.ZoneID, h.Notes)
	return err
}

// Update replaces a herd's fields.
func (r *HerdRepo) Update(ctx context.Context, h *domain.Herd) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE herds SET name = $2, species = $3, zone_id = $4, notes = $5
		WHERE id = $1
	`, h.ID, h.Name, h.Species, h.ZoneID, h.Notes)
	return err
}

// GetByID returns a herd by UUID, or nil when it does not exist.
func (r *HerdRepo) GetByID(ctx context.Context, id string) (*domain.Herd, error) {
	var h domain.Herd
	err := r.db.Pool.QueryRow(ctx, herdSelect+`
		WHERE h.id = $1
		GROUP BY h.id
	`, id).Scan(&h.ID, &h.Name, &h.Species, &h.ZoneID, &h.Notes, &h.CreatedAt, &h.Headcount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all herds ordered by name.
func (r *HerdRepo) List(ctx context.Context) ([]domain.Herd, error) {
	rows, err := r.db.Pool.Query(ctx, herdSelect+`
		GROUP BY h.id
		ORDER BY h.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHerds(rows)
}

// ListByZone returns the herds assigned to a zone.
func (r *HerdRepo) ListByZone(ctx context.Context, zoneID string) ([]domain.Herd, error) {
	rows, err := r.db.Pool.Query(ctx, herdSelect+`
		WHERE h.zone_id = $1
		GROUP BY h.id
		ORDER BY h.name
	`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHerds(rows)
}

// Delete removes a herd. Its animals stay, unassigned.
func (r *HerdRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM herds WHERE id = $1`, id)
	return err
}

func scanHerds(rows pgx.Rows) ([]domain.Herd, error) {
	var herds []domain.Herd
	for rows.Next() {
		var h domain.Herd
		if err := rows.Scan(&h.ID, &h.Name, &h.Species, &h.ZoneID, &h.Notes, &h.CreatedAt, &h.Headcount); err != nil {
			return nil, err
		}
		herds = append(herds, h)
	}
	return herds, rows.Err()
}
