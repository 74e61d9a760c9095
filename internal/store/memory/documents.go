// Package memory keeps cinema records in process memory. It backs local runs
// (STORE_DRIVER=memory) and the tests of the layers above the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
)

type cinemaStore struct {
	mu    sync.RWMutex
	order []string // ids in insertion order
	byID  map[string]model.Cinema
}

// NewCinemaStore returns an empty store.
func NewCinemaStore() repository.CinemaStore {
	return &cinemaStore{byID: make(map[string]model.Cinema)}
}

func (s *cinemaStore) Insert(ctx context.Context, c *model.Cinema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.ID = ulid.Make().String()
	s.mu.Lock()
	s.byID[c.ID] = *c
	s.order = append(s.order, c.ID)
	s.mu.Unlock()
	return nil
}

func (s *cinemaStore) List(ctx context.Context, limit int) ([]*model.Cinema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*model.Cinema, 0, n)
	for _, id := range s.order[:n] {
		c := s.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (s *cinemaStore) Get(ctx context.Context, id string) (*model.Cinema, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	c, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrCinemaNotFound
	}
	return &c, nil
}

func (s *cinemaStore) Update(ctx context.Context, id string, patch model.CinemaPatch) (*model.Cinema, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrCinemaNotFound
	}
	patch.Apply(&c)
	s.byID[id] = c
	return &c, nil
}

func (s *cinemaStore) Delete(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return repository.ErrCinemaNotFound
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *cinemaStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *cinemaStore) Close(context.Context) error { return nil }

// canonicalID returns id in the upper-case form Insert assigns, so a
// lower-case spelling of the same ULID finds the same record.
func canonicalID(id string) (string, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", repository.ErrMalformedID, id)
	}
	return u.String(), nil
}
