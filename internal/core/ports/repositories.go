package ports

import (
	"context"
	"time"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// ZoneRepository persists zones and their boundaries.
type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.Zone) error
	Update(ctx context.Context, zone *domain.Zone) error
	GetByID(ctx context.Context, id string) (*domain.Zone, error)
	List(ctx context.Context) ([]domain.Zone, error)
	ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error)
	// FindAt returns the zone whose boundary covers the point, or nil.
	FindAt(ctx context.Context, pt domain.GeoPoint) (*domain.Zone, error)
	Delete(ctx context.Context, id string) error
}

// HerdRepository persists herds.
type HerdRepository interface {
	Create(ctx context.Context, herd *domain.Herd) error
	Update(ctx context.Context, herd *domain.Herd) error
	GetByID(ctx context.Context, id string) (*domain.Herd, error)
	List(ctx context.Context) ([]domain.Herd, error)
	ListByZone(ctx context.Context, zoneID string) ([]domain.Herd, error)
	Delete(ctx context.Context, id string) error
}

// AnimalRepository persists animals.
type AnimalRepository interface {
	Create(ctx context.Context, animal *domain.Animal) error
	UpsertBatch(ctx context.Context, animals []domain.Animal) error
	Update(ctx context.Context, animal *domain.Animal) error
	GetByID(ctx context.Context, id string) (*domain.Animal, error)
	GetByTag(ctx context.Context, tag string) (*domain.Animal, error)
	List(ctx context.Context, herdID string, status string) ([]domain.Animal, error)
	Delete(ctx context.Context, id string) error
}

// SupplyRepository persists supplies.
type SupplyRepository interface {
	Create(ctx context.Context, supply *domain.Supply) error
	Update(ctx context.Context, supply *domain.Supply) error
	GetByID(ctx context.Context, id string) (*domain.Supply, error)
	List(ctx context.Context) ([]domain.Supply, error)
	// AdjustQuantity applies a delta, clamping at zero, and returns the
	// updated supply.
	AdjustQuantity(ctx context.Context, id string, delta float64) (*domain.Supply, error)
	ListLow(ctx context.Context) ([]domain.Supply, error)
	Delete(ctx context.Context, id string) error
}

// ServiceRecordRepository persists service records.
type ServiceRecordRepository interface {
	Create(ctx context.Context, rec *domain.ServiceRecord) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRecord, error)
	List(ctx context.Context, animalID, zoneID string, since time.Time) ([]domain.ServiceRecord, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, status string) ([]domain.Task, error)
	SetStatus(ctx context.Context, id, status string, completedAt *time.Time) error
	SetReminderSent(ctx context.Context, id string, sent bool) error
	Delete(ctx context.Context, id string) error
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	RanchStats(ctx context.Context) (*domain.RanchStats, error)
}
