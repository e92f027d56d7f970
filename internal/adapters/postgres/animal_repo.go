package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// AnimalRepo implements ports.AnimalRepository with pgx.
type AnimalRepo struct {
	db *DB
}

// NewAnimalRepo creates a new AnimalRepo.
func NewAnimalRepo(db *DB) *AnimalRepo {
	return &AnimalRepo{db: db}
}

const animalColumns = `id, tag, herd_id, species, COALESCE(breed, ''), COALESCE(sex, ''),
	       birth_date, weight_kg, status, COALESCE(notes, ''), created_at, updated_at`

// Create inserts an animal.
func (r *AnimalRepo) Create(ctx context.Context, a *domain.Animal) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO animals (id, tag, herd_id, species, breed, sex, birth_date, weight_kg, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.Tag, a.HerdID, a.Species, a.Breed, a.Sex, a.BirthDate, a.WeightKg, a.Status, a.Notes)
	return err
}

// UpsertBatch inserts many animals keyed by ear tag using pgx.Batch.
func (r *AnimalRepo) UpsertBatch(ctx context.Context, animals []domain.Animal) error {
	batch := &pgx.Batch{}
	for _, a := range animals {
		batch.Queue(`
			INSERT INTO animals (id, tag, herd_id, species, breed, sex, birth_date, weight_kg, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (tag) DO UPDATE
			SET herd_id = EXCLUDED.herd_id, species = EXCLUDED.species,
			    breed = EXCLUDED.breed, sex = EXCLUDED.sex,
			    birth_date = EXCLUDED.birth_date, weight_kg = EXCLUDED.weight_kg,
			    status = EXCLUDED.status, notes = EXCLUDED.notes,
			    updated_at = now()
		`, a.ID, a.Tag, a.HerdID, a.Species, a.Breed, a.Sex, a.BirthDate, a.WeightKg, a.Status, a.Notes)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range animals {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// Update replaces an animal's fields.
func (r *AnimalRepo) Update(ctx context.Context, a *domain.Animal) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE animals
		SET tag = $2, herd_id = $3, species = $4, breed = $5, sex = $6,
		    birth_date = $7, weight_kg = $8, status = $9, notes = $10,
		    updated_at = now()
		WHERE id = $1
	`, a.ID, a.Tag, a.HerdID, a.Species, a.Breed, a.Sex, a.BirthDate, a.WeightKg, a.Status, a.Notes)
	return err
}

// GetByID returns an animal by UUID, or nil when it does not exist.
func (r *AnimalRepo) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByTag returns an animal by ear tag, or nil when it does not exist.
func (r *AnimalRepo) GetByTag(ctx context.Context, tag string) (*domain.Animal, error) {
	return r.getOne(ctx, `WHERE tag = $1`, tag)
}

func (r *AnimalRepo) getOne(ctx context.Context, where string, arg any) (*domain.Animal, error) {
	var a domain.Animal
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+animalColumns+`
		FROM animals `+where,
		arg,
	).Scan(
		&a.ID, &a.Tag, &a.HerdID, &a.Species, &a.Breed, &a.Sex,
		&a.BirthDate, &a.WeightKg, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns animals ordered by tag. Empty herdID or status means no
// filter on that field.
func (r *AnimalRepo) List(ctx context.Context, herdID, status string) ([]domain.Animal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE ($1 = '' OR herd_id::text = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY tag
	`, herdID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []domain.Animal
	for rows.Next() {
		var a domain.Animal
		if err := rows.Scan(
			&a.ID, &a.Tag, &a.HerdID, &a.Species, &a.Breed, &a.Sex,
			&a.BirthDate, &a.WeightKg, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

// Delete removes an animal.
func (r *AnimalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	return err
}
