package usecases

import (
	"context"

	"github.com/google/uuid"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// SupplyService handles supply-related business logic.
type SupplyService struct {
	supplies ports.SupplyRepository
	events   ports.EventPublisher
}

// NewSupplyService creates a new SupplyService.
func NewSupplyService(supplies ports.SupplyRepository, events ports.EventPublisher) *SupplyService {
	return &SupplyService{supplies: supplies, events: events}
}

// List returns all supplies.
func (s *SupplyService) List(ctx context.Context) ([]domain.Supply, error) {
	return s.supplies.List(ctx)
}

// ListLow returns supplies at or below their low-stock mark.
func (s *SupplyService) ListLow(ctx context.Context) ([]domain.Supply, error) {
	return s.supplies.ListLow(ctx)
}

// GetByID returns a supply.
func (s *SupplyService) GetByID(ctx context.Context, id string) (*domain.Supply, error) {
	return s.supplies.GetByID(ctx, id)
}

// Create stores a new supply.
func (s *SupplyService) Create(ctx context.Context, supply *domain.Supply) error {
	if supply.ID == "" {
		supply.ID = uuid.NewString()
	}
	return s.supplies.Create(ctx, supply)
}

// Update stores changed supply fields.
func (s *SupplyService) Update(ctx context.Context, supply *domain.Supply) error {
	return s.supplies.Update(ctx, supply)
}

// Adjust applies a quantity delta (negative for consumption) and
// returns the updated supply. Crossing the low-stock mark publishes a
// supply-low event; the stockwatch sweeper may publish the same item
// again, which relay listeners tolerate.
func (s *SupplyService) Adjust(ctx context.Context, id string, delta float64) (*domain.Supply, error) {
	supply, err := s.supplies.AdjustQuantity(ctx, id, delta)
	if err != nil || supply == nil {
		return supply, err
	}
	if supply.IsLow() && s.events != nil {
		_ = s.events.PublishSupplyLow(ctx, supply)
	}
	return supply, nil
}

// SweepLow publishes a supply-low event for every item currently under
// its mark and returns how many were flagged. The stockwatch binary
// calls this on a timer.
func (s *SupplyService) SweepLow(ctx context.Context) (int, error) {
	low, err := s.supplies.ListLow(ctx)
	if err != nil {
		return 0, err
	}
	for i := range low {
		if s.events != nil {
			_ = s.events.PublishSupplyLow(ctx, &low[i])
		}
	}
	return len(low), nil
}

// Delete removes a supply.
func (s *SupplyService) Delete(ctx context.Context, id string) error {
	return s.supplies.Delete(ctx, id)
}
