package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber with plain fan-out
// subscriptions: every API instance must see every event, since the
// handlers invalidate that instance's local view of the cache. Durable
// work-queue consumers would deliver each event to only one instance.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn}, nil
}

// SubscribeZoneSaved delivers every zone save, including ones made by
// other instances.
func (s *Subscriber) SubscribeZoneSaved(ctx context.Context, handler func(ctx context.Context, zone *domain.Zone) error) error {
	sub, err := s.conn.Subscribe("ranch.zone.saved.>", func(msg *nats.Msg) {
		var zone domain.Zone
		if err := json.Unmarshal(msg.Data, &zone); err != nil {
			return
		}
		_ = handler(ctx, &zone)
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeSupplyLow delivers every supply-low event.
func (s *Subscriber) SubscribeSupplyLow(ctx context.Context, handler func(ctx context.Context, supply *domain.Supply) error) error {
	sub, err := s.conn.Subscribe("ranch.supply.low.>", func(msg *nats.Msg) {
		var supply domain.Supply
		if err := json.Unmarshal(msg.Data, &supply); err != nil {
			return
		}
		_ = handler(ctx, &supply)
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
