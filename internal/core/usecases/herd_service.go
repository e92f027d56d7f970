package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// HerdService handles herd-related business logic.
type HerdService struct {
	herds ports.HerdRepository
	zones ports.ZoneRepository
}

// NewHerdService creates a new HerdService.
func NewHerdService(herds ports.HerdRepository, zones ports.ZoneRepository) *HerdService {
	return &HerdService{herds: herds, zones: zones}
}

// List returns all herds.
func (s *HerdService) List(ctx context.Context) ([]domain.Herd, error) {
	return s.herds.List(ctx)
}

// ListByZone returns the herds currently grazing a zone.
func (s *HerdService) ListByZone(ctx context.Context, zoneID string) ([]domain.Herd, error) {
	return s.herds.ListByZone(ctx, zoneID)
}

// GetByID returns a herd.
func (s *HerdService) GetByID(ctx context.Context, id string) (*domain.Herd, error) {
	return s.herds.GetByID(ctx, id)
}

// Create stores a new herd after checking any assigned zone exists.
func (s *HerdService) Create(ctx context.Context, herd *domain.Herd) error {
	if herd.ID == "" {
		herd.ID = uuid.NewString()
	}
	if err := s.checkZone(ctx, herd.ZoneID); err != nil {
		return err
	}
	return s.herds.Create(ctx, herd)
}

// Update stores changed herd fields.
func (s *HerdService) Update(ctx context.Context, herd *domain.Herd) error {
	if err := s.checkZone(ctx, herd.ZoneID); err != nil {
		return err
	}
	return s.herds.Update(ctx, herd)
}

// MoveToZone reassigns a herd to a zone, or off all zones when zoneID
// is nil.
func (s *HerdService) MoveToZone(ctx context.Context, herdID string, zoneID *string) (*domain.Herd, error) {
	herd, err := s.herds.GetByID(ctx, herdID)
	if err != nil {
		return nil, err
	}
	if herd == nil {
		return nil, nil
	}
	if err := s.checkZone(ctx, zoneID); err != nil {
		return nil, err
	}
	herd.ZoneID = zoneID
	if err := s.herds.Update(ctx, herd); err != nil {
		return nil, err
	}
	return herd, nil
}

// Delete removes a herd.
func (s *HerdService) Delete(ctx context.Context, id string) error {
	return s.herds.Delete(ctx, id)
}

func (s *HerdService) checkZone(ctx context.Context, zoneID *string) error {
	if zoneID == nil {
		return nil
	}
	zone, err := s.zones.GetByID(ctx, *zoneID)
	if err != nil {
		return fmt.Errorf("check zone: %w", err)
	}
	if zone == nil {
		return fmt.Errorf("zone %s not found", *zoneID)
	}
	return nil
}
