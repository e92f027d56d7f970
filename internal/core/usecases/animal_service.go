package usecases

import (
	"context"

	"github.com/google/uuid"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// AnimalService handles animal-related business logic.
type AnimalService struct {
	animals ports.AnimalRepository
}

// NewAnimalService creates a new AnimalService.
func NewAnimalService(animals ports.AnimalRepository) *AnimalService {
	return &AnimalService{animals: animals}
}

// List returns animals, optionally filtered by herd and status.
func (s *AnimalService) List(ctx context.Context, herdID, status string) ([]domain.Animal, error) {
	return s.animals.List(ctx, herdID, status)
}

// GetByID returns an animal.
func (s *AnimalService) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	return s.animals.GetByID(ctx, id)
}

// GetByTag returns an animal by its ear tag.
func (s *AnimalService) GetByTag(ctx context.Context, tag string) (*domain.Animal, error) {
	return s.animals.GetByTag(ctx, tag)
}

// Create stores a new animal, defaulting its status to active.
func (s *AnimalService) Create(ctx context.Context, animal *domain.Animal) error {
	if animal.ID == "" {
		animal.ID = uuid.NewString()
	}
	if animal.Status == "" {
		animal.Status = domain.AnimalActive
	}
	return s.animals.Create(ctx, animal)
}

// ImportBatch upserts animals in bulk, keyed by ear tag. Used by the
// CSV importer.
func (s *AnimalService) ImportBatch(ctx context.Context, animals []domain.Animal) (int, error) {
	if len(animals) == 0 {
		return 0, nil
	}
	for i := range animals {
		if animals[i].ID == "" {
			animals[i].ID = uuid.NewString()
		}
		if animals[i].Status == "" {
			animals[i].Status = domain.AnimalActive
		}
	}
	if err := s.animals.UpsertBatch(ctx, animals); err != nil {
		return 0, err
	}
	return len(animals), nil
}

// Update stores changed animal fields.
func (s *AnimalService) Update(ctx context.Context, animal *domain.Animal) error {
	return s.animals.Update(ctx, animal)
}

// Delete removes an animal.
func (s *AnimalService) Delete(ctx context.Context, id string) error {
	return s.animals.Delete(ctx, id)
}
