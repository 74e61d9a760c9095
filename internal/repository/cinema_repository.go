// Package repository contains data access logic separated from HTTP handlers.
// This file defines CinemaRepo, the adapter between handlers and whichever
// CinemaStore backend was configured at startup. It validates payloads before
// they reach the store, folds backend errors into the package error kinds and
// announces every successful write as a CinemaChanged event.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-api/internal/events"
	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/validator"
)

// CinemaRepo performs CRUD on the cinema collection through a CinemaStore.
type CinemaRepo struct {
	store  CinemaStore      // backend chosen by store.Open
	events events.Publisher // receives an event after every successful write
	log    zerolog.Logger
}

// NewCinemaRepo constructs a CinemaRepo around an already connected store.
// It panics when store or pub is nil, since nothing can work without them.
func NewCinemaRepo(store CinemaStore, pub events.Publisher, log zerolog.Logger) *CinemaRepo {
	if store == nil || pub == nil {
		panic("nil dependency passed to NewCinemaRepo")
	}
	return &CinemaRepo{store: store, events: pub, log: log.With().Str("component", "cinema_repo").Logger()}
}

// Create validates in and inserts a copy of it. The id of in is ignored; the
// returned record carries the id assigned by the store.
func (r *CinemaRepo) Create(ctx context.Context, in model.Cinema) (*model.Cinema, error) {
	v := validator.New()
	if model.ValidateCinema(v, &in); !v.Valid() {
		return nil, &ValidationError{Fields: v.Errors}
	}
	c := &model.Cinema{Movie: in.Movie, Description: in.Description, Image: in.Image}
	if err := r.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	r.publish(ctx, events.New(events.KindCreated, c.ID, c.Movie))
	return c, nil
}

// List returns all records in store order, at most limit of them when
// limit is positive. The result is never nil.
func (r *CinemaRepo) List(ctx context.Context, limit int) ([]*model.Cinema, error) {
	if limit < 0 {
		limit = 0
	}
	out, err := r.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*model.Cinema{}
	}
	return out, nil
}

// GetByID returns the record with the given id or ErrCinemaNotFound.
func (r *CinemaRepo) GetByID(ctx context.Context, id string) (*model.Cinema, error) {
	c, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, r.classify(err, id)
	}
	return c, nil
}

// UpdateByID merges the provided fields of patch into the record and returns
// the updated record. An empty patch returns the stored record unchanged.
func (r *CinemaRepo) UpdateByID(ctx context.Context, id string, patch model.CinemaPatch) (*model.Cinema, error) {
	v := validator.New()
	if model.ValidatePatch(v, patch); !v.Valid() {
		return nil, &ValidationError{Fields: v.Errors}
	}
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	c, err := r.store.Update(ctx, id, patch)
	if err != nil {
		return nil, r.classify(err, id)
	}
	r.publish(ctx, events.New(events.KindUpdated, c.ID, c.Movie))
	return c, nil
}

// DeleteByID removes the record. Deleting an id twice reports
// ErrCinemaNotFound the second time.
func (r *CinemaRepo) DeleteByID(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return r.classify(err, id)
	}
	r.publish(ctx, events.New(events.KindDeleted, id, ""))
	return nil
}

// Ping reports whether the underlying store is reachable.
func (r *CinemaRepo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// classify folds a malformed id into ErrCinemaNotFound; an id the store
// could never have issued names no record.
func (r *CinemaRepo) classify(err error, id string) error {
	if errors.Is(err, ErrMalformedID) {
		r.log.Debug().Str("cinema_id", id).Msg("malformed id treated as not found")
		return ErrCinemaNotFound
	}
	return err
}

// publish never fails the request; the write already happened.
func (r *CinemaRepo) publish(ctx context.Context, ev events.CinemaChanged) {
	if err := r.events.Publish(ctx, ev); err != nil {
		r.log.Warn().Err(err).Str("kind", ev.Kind).Str("cinema_id", ev.CinemaID).Msg("publish change event failed")
	}
}
