package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// SupplyRepo implements ports.SupplyRepository with pgx.
type SupplyRepo struct {
	db *DB
}

// NewSupplyRepo creates a new SupplyRepo.
func NewSupplyRepo(db *DB) *SupplyRepo {
	return &SupplyRepo{db: db}
}

const supplyColumns = `id, name, COALESCE(category, ''), quantity, COALESCE(unit, ''),
	       low_stock_at, COALESCE(notes, ''), created_at, updated_at`

// Create inserts a supply.
func (r *SupplyRepo) Create(ctx context.Context, s *domain.Supply) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO supplies (id, name, category, quantity, unit, low_stock_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Name, s.Category, s.Quantity, s.Unit, s.LowStockAt, s.Notes)
	return err
}

// Update replaces a supply's fields.
func (r *SupplyRepo) Update(ctx context.Context, s *domain.Supply) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE supplies
		SET name = $2, category = $3, quantity = $4, unit = $5,
		    low_stock_at = $6, notes = $7, updated_at = now()
		WHERE id = $1
	`, s.ID, s.Name, s.Category, s.Quantity, s.Unit, s.LowStockAt, s.Notes)
	return err
}

// GetByID returns a supply by UUID, or nil when it does not exist.
func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*domain.Supply, error) {
	var s domain.Supply
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies WHERE id = $1
	`, id).Scan(
		&s.ID, &s.Name, &s.Category, &s.Quantity, &s.Unit,
		&s.LowStockAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all supplies ordered by name.
func (r *SupplyRepo) List(ctx context.Context) ([]domain.Supply, error) {
	return r.list(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies ORDER BY name
	`)
}

// ListLow returns supplies at or below their low-stock mark.
func (r *SupplyRepo) ListLow(ctx context.Context) ([]domain.Supply, error) {
	return r.list(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies
		WHERE low_stock_at > 0 AND quantity <= low_stock_at
		ORDER BY name
	`)
}

// AdjustQuantity applies a delta clamped at zero and returns the
// updated row, or nil when the supply does not exist.
func (r *SupplyRepo) AdjustQuantity(ctx context.Context, id string, delta float64) (*domain.Supply, error) {
	var s domain.Supply
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE supplies
		SET quantity = GREATEST(0, quantity + $2), updated_at = now()
		WHERE id = $1
		RETURNING `+supplyColumns,
		id, delta,
	).Scan(
		&s.ID, &s.Name, &s.Category, &s.Quantity, &s.Unit,
		&s.LowStockAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a supply.
func (r *SupplyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id)
	return err
}

func (r *SupplyRepo) list(ctx context.Context, query string) ([]domain.Supply, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supplies []domain.Supply
	for rows.Next() {
		var s domain.Supply
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Category, &s.Quantity, &s.Unit,
			&s.LowStockAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		supplies = append(supplies, s)
	}
	return supplies, rows.Err()
}
