// Package repository defines the error kinds shared by the cinema store
// backends and the CinemaRepo adapter. Handlers translate them into HTTP
// statuses: validation failures become 400, missing records 404 and an
// unreachable store 503.
package repository

import (
	"errors"
	"sort"
	"strings"
)

// ErrCinemaNotFound is returned when no record exists for the given id.
var ErrCinemaNotFound = errors.New("cinema not found")

// ErrMalformedID is returned by backends when an id does not have the shape
// the store uses for its identifiers. CinemaRepo reports it as
// ErrCinemaNotFound.
var ErrMalformedID = errors.New("malformed cinema id")

// ErrStoreUnavailable wraps connection-class failures of the backing store.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError lists the fields of a payload that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
