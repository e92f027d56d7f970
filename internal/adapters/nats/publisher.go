package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the ranch streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "RANCH_ZONES",
			Subjects:  []string{"ranch.zone.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "RANCH_TASKS",
			Subjects:  []string{"ranch.task.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "RANCH_SUPPLIES",
			Subjects:  []string{"ranch.supply.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishZoneSaved announces a created or updated zone, boundary
// included, so map clients can redraw without polling.
func (p *Publisher) PublishZoneSaved(ctx context.Context, zone *domain.Zone) error {
	data, err := json.Marshal(zone)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("ranch.zone.saved."+zone.ID, data)
	return err
}

// PublishZoneDeleted announces a removed zone.
func (p *Publisher) PublishZoneDeleted(ctx context.Context, zoneID string) error {
	_, err := p.js.Publish("ranch.zone.deleted."+zoneID, []byte(zoneID))
	return err
}

// PublishTaskDue announces a task reaching its reminder time.
func (p *Publisher) PublishTaskDue(ctx context.Context, task *domain.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("ranch.task.due."+task.ID, data)
	return err
}

// PublishSupplyLow announces a supply at or below its low-stock mark.
func (p *Publisher) PublishSupplyLow(ctx context.Context, supply *domain.Supply) error {
	data, err := json.Marshal(supply)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("ranch.supply.low."+supply.ID, data)
	return err
}

// PublishBroadcast fans a raw payload out to every relay client.
func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish("ranch.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
