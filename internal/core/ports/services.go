package ports

import (
	"context"
	"time"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishZoneSaved(ctx context.Context, zone *domain.Zone) error
	PublishZoneDeleted(ctx context.Context, zoneID string) error
	PublishTaskDue(ctx context.Context, task *domain.Task) error
	PublishSupplyLow(ctx context.Context, supply *domain.Supply) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeZoneSaved(ctx context.Context, handler func(ctx context.Context, zone *domain.Zone) error) error
	SubscribeSupplyLow(ctx context.Context, handler func(ctx context.Context, supply *domain.Supply) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReminderScheduler schedules a due-time reminder for a task. The
// schedule survives process restarts; implementations back it with a
// durable workflow engine.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, task *domain.Task) error
	CancelReminder(ctx context.Context, taskID string) error
}
