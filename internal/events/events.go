// Package events publishes domain events (registrations, favorites
// changes, deregistrations) to a message broker. Publishing is
// fire-and-forget from the caller's perspective: the API never fails a
// request because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Channel is the broker channel all user events are published on.
const Channel = "user-events"

// Event kinds.
const (
	KindUserRegistered   = "user.registered"
	KindUserDeleted      = "user.deleted"
	KindFavoritesChanged = "user.favorites_changed"
)

// Event is the wire payload published to the broker.
type Event struct {
	Kind       string    `json:"kind"`
	Username   string    `json:"username"`
	MovieID    string    `json:"movie_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broker is the transport an Event is published over.
type Broker interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher serializes events and hands them to a Broker. A nil
// Publisher is valid and drops every event, so callers need no
// enabled/disabled branching.
type Publisher struct {
	broker Broker
}

// NewPublisher constructs a Publisher over the given broker.
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// UserRegistered publishes a registration event.
func (p *Publisher) UserRegistered(ctx context.Context, username string) {
	p.publish(ctx, Event{Kind: KindUserRegistered, Username: username})
}

// UserDeleted publishes a deregistration event.
func (p *Publisher) UserDeleted(ctx context.Context, username string) {
	p.publish(ctx, Event{Kind: KindUserDeleted, Username: username})
}

// FavoritesChanged publishes a favorites add/remove event.
func (p *Publisher) FavoritesChanged(ctx context.Context, username, movieID string) {
	p.publish(ctx, Event{Kind: KindFavoritesChanged, Username: username, MovieID: movieID})
}

// Close closes the underlying broker.
func (p *Publisher) Close() error {
	if p == nil || p.broker == nil {
		return nil
	}
	return p.broker.Close()
}

func (p *Publisher) publish(ctx context.Context, event Event) {
	if p == nil || p.broker == nil {
		return
	}
	event.OccurredAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal %s: %v", event.Kind, err)
		return
	}
	if _, err := p.broker.Publish(ctx, Channel, data, map[string]string{"kind": event.Kind}); err != nil {
		log.Printf("events: publish %s: %v", event.Kind, err)
	}
}
