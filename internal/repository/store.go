package repository

import (
	"context"

	"github.com/iliyamo/cinema-api/internal/model"
)

// CinemaStore is implemented by every storage backend (MongoDB, SQL, memory).
// Backends do not validate payloads; CinemaRepo does that before calling them.
type CinemaStore interface {
	// Insert persists c and sets c.ID to the identifier chosen by the store.
	Insert(ctx context.Context, c *model.Cinema) error

	// List returns records in insertion order. A limit <= 0 means no cap.
	List(ctx context.Context, limit int) ([]*model.Cinema, error)

	// Get returns ErrCinemaNotFound when id is unknown and ErrMalformedID
	// when id cannot be an identifier of this store.
	Get(ctx context.Context, id string) (*model.Cinema, error)

	// Update merges the non-nil fields of patch and returns the stored result.
	Update(ctx context.Context, id string, patch model.CinemaPatch) (*model.Cinema, error)

	// Delete removes the record or returns ErrCinemaNotFound.
	Delete(ctx context.Context, id string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection held by the backend.
	Close(ctx context.Context) error
}
