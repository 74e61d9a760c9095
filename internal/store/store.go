// Package store opens the cinema record backend named by the configuration.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-api/internal/config"
	"github.com/iliyamo/cinema-api/internal/repository"
	"github.com/iliyamo/cinema-api/internal/store/memory"
	"github.com/iliyamo/cinema-api/internal/store/mongodb"
	"github.com/iliyamo/cinema-api/internal/store/sqldb"
)

// Open connects to the configured backend. The initial connection and ping
// are bounded by cfg.ConnectTimeout; there is no retry.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (repository.CinemaStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var (
		s   repository.CinemaStore
		err error
	)
	switch cfg.Driver {
	case config.DriverMongo:
		s, err = mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case config.DriverMySQL, config.DriverPostgres:
		s, err = sqldb.Open(ctx, cfg.Driver, cfg.DatabaseURL)
	case config.DriverMemory:
		s = memory.NewCinemaStore()
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Msg("store connected")
	return s, nil
}
