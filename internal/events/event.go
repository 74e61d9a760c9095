// Package events defines the change notifications emitted after every
// successful write to the cinema collection and the transports that carry
// them: RabbitMQ when a broker is configured, an in-process dispatcher
// otherwise.
package events

import (
	"context"
	"time"
)

// Routing keys, also used as the event kind.
const (
	KindCreated = "cinema.created"
	KindUpdated = "cinema.updated"
	KindDeleted = "cinema.deleted"
)

// CinemaChanged is published after a record was created, updated or deleted.
// It carries enough to let consumers drop stale cached reads without
// querying the store.
type CinemaChanged struct {
	Kind       string `json:"kind"`
	CinemaID   string `json:"cinema_id"`
	Movie      string `json:"movie,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// New builds an event stamped with the current UTC time.
func New(kind, cinemaID, movie string) CinemaChanged {
	return CinemaChanged{
		Kind:       kind,
		CinemaID:   cinemaID,
		Movie:      movie,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// Publisher sends events to whoever listens.
type Publisher interface {
	Publish(ctx context.Context, ev CinemaChanged) error
}

// Handler reacts to a received event.
type Handler func(ctx context.Context, ev CinemaChanged) error
