package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// ZoneRepo implements ports.ZoneRepository with pgx.
//
// The geom column is the source of truth and stores the boundary as
// GeoJSON Polygon text exactly as saved. The boundary column is derived
// from it on every write so PostGIS can answer point and viewport
// queries; it is never read back into the domain.
type ZoneRepo struct {
	db *DB
}

// NewZoneRepo creates a new ZoneRepo.
func NewZoneRepo(db *DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

const zoneColumns = `id, name, COALESCE(description, ''), geom, area_acres, created_at, updated_at`

// Create inserts a zone.
func (r *ZoneRepo) Create(ctx context.Context, z *domain.Zone) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO zones (id, name, description, geom, area_acres, boundary)
		VALUES ($1, $2, $3, $4, $5, ST_GeomFromGeoJSON($4)::geography)
	`, z.ID, z.Name, z.Description, z.Geom, z.AreaAcres)
	return err
}

// Update replaces a zone's fields and rederives the PostGIS boundary.
func (r *ZoneRepo) Update(ctx context.Context, z *domain.Zone) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE zones
		SET name = $2, description = $3, geom = $4, area_acres = $5,
		    boundary = ST_GeomFromGeoJSON($4)::geography,
		    updated_at = now()
		WHERE id = $1
	`, z.ID, z.Name, z.Description, z.Geom, z.AreaAcres)
	return err
}

// GetByID returns a zone by UUID, or nil when it does not exist.
func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	var z domain.Zone
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+zoneColumns+`
		FROM zones WHERE id = $1
	`, id).Scan(
		&z.ID, &z.Name, &z.Description, &z.Geom, &z.AreaAcres,
		&z.CreatedAt, &z.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

// List returns all zones ordered by name.
func (r *ZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+zoneColumns+`
		FROM zones ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanZones(rows)
}

// ListInBounds returns zones whose boundary intersects the viewport.
func (r *ZoneRepo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+zoneColumns+`
		FROM zones
		WHERE boundary IS NOT NULL
		  AND boundary::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY name
	`, b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanZones(rows)
}

// FindAt returns the zone covering a point, preferring the smallest
// when boundaries overlap, or nil when the point is on no zone.
func (r *ZoneRepo) FindAt(ctx context.Context, pt domain.GeoPoint) (*domain.Zone, error) {
	var z domain.Zone
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+zoneColumns+`
		FROM zones
		WHERE boundary IS NOT NULL
		  AND ST_Covers(boundary, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
		ORDER BY area_acres ASC
		LIMIT 1
	`, pt.Lng, pt.Lat).Scan(
		&z.ID, &z.Name, &z.Description, &z.Geom, &z.AreaAcres,
		&z.CreatedAt, &z.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

// Delete removes a zone.
func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM zones WHERE id = $1`, id)
	return err
}

func scanZones(rows pgx.Rows) ([]domain.Zone, error) {
	var zones []domain.Zone
	for rows.Next() {
		var z domain.Zone
		if err := rows.Scan(
			&z.ID, &z.Name, &z.Description, &z.Geom, &z.AreaAcres,
			&z.CreatedAt, &z.UpdatedAt,
		); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
