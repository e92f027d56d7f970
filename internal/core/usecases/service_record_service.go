package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// ServiceRecordService handles service-log business logic.
type ServiceRecordService struct {
	records ports.ServiceRecordRepository
}

// NewServiceRecordService creates a new ServiceRecordService.
func NewServiceRecordService(records ports.ServiceRecordRepository) *ServiceRecordService {
	return &ServiceRecordService{records: records}
}

// List returns service records, optionally filtered by animal, zone and
// a lower time bound. A zero since means no time filter.
func (s *ServiceRecordService) List(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error) {
	return s.records.List(ctx, animalID, zoneID, since)
}

// GetByID returns a service record.
func (s *ServiceRecordService) GetByID(ctx context.Context, id string) (*domain.ServiceRecord, error) {
	return s.records.GetByID(ctx, id)
}

// Create stores a new service record, stamping PerformedAt with the
// current time when the caller left it unset.
func (s *ServiceRecordService) Create(ctx context.Context, rec *domain.ServiceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.PerformedAt.IsZero() {
		rec.PerformedAt = time.Now()
	}
	return s.records.Create(ctx, rec)
}

// Delete removes a service record.
func (s *ServiceRecordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
