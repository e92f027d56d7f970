package postgres

import (
	"context"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// StatsRepo implements ports.StatsRepository with pgx.
type StatsRepo struct {
	db *DB
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// RanchStats computes the dashboard aggregates in one round trip.
func (r *StatsRepo) RanchStats(ctx context.Context) (*domain.RanchStats, error) {
	var s domain.RanchStats
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM zones),
			(SELECT COALESCE(SUM(area_acres), 0) FROM zones),
			(SELECT COUNT(*) FROM zones WHERE geom IS NOT NULL),
			(SELECT COUNT(*) FROM herds),
			(SELECT COUNT(*) FROM animals WHERE status = 'active'),
			(SELECT COUNT(*) FROM tasks WHERE status = 'open'),
			(SELECT COUNT(*) FROM supplies WHERE low_stock_at > 0 AND quantity <= low_stock_at),
			(SELECT COUNT(*) FROM service_records)
	`).Scan(
		&s.Zones, &s.TotalAreaAcres, &s.BoundariesDrawn, &s.Herds,
		&s.Animals, &s.OpenTasks, &s.LowStockItems, &s.ServicesLogged,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
