package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/cinema-api/internal/validator"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongodb"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; see Load for names and defaults.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	LogLevel        string        // zerolog level name
	ShutdownTimeout time.Duration // time allowed for in-flight requests on shutdown
	CORSOrigins     []string      // allowed CORS origins
	Store           StoreConfig   // record store selection and connection
	Events          EventsConfig  // change event transport
}

// StoreConfig selects and locates the backing store.
type StoreConfig struct {
	Driver          string        // one of the Driver* constants
	MongoURI        string        // MongoDB connection string
	MongoDatabase   string        // MongoDB database name
	MongoCollection string        // MongoDB collection name
	DatabaseURL     string        // DSN for mysql and postgres
	ConnectTimeout  time.Duration // bound on the initial connection and ping
}

// EventsConfig locates the RabbitMQ broker. An empty URL keeps events in process.
type EventsConfig struct {
	AMQPURL  string // broker URL; empty disables the broker
	Exchange string // topic exchange for change events
}

// Load reads configuration values from environment variables.  Only the
// store location is required; the port falls back to 5000.  All problems are
// reported together in the returned error.
func Load() (Config, error) {
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("PORT", "5000"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 5*time.Second),
		CORSOrigins:     envList("CORS_ALLOWED_ORIGINS", "*"),
		Store: StoreConfig{
			Driver:          strings.ToLower(envStr("STORE_DRIVER", DriverMongo)),
			MongoURI:        os.Getenv("MONGODB_URI"),
			MongoDatabase:   envStr("MONGODB_DATABASE", "cinema"),
			MongoCollection: envStr("MONGODB_COLLECTION", "cinemas"),
			DatabaseURL:     os.Getenv("DATABASE_URL"),
			ConnectTimeout:  envDur("STORE_CONNECT_TIMEOUT", 10*time.Second),
		},
		Events: EventsConfig{
			AMQPURL:  envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
			Exchange: envStr("EVENTS_EXCHANGE", "cinema.events"),
		},
	}

	var errs []error
	switch d := cfg.Store.Driver; {
	case !validator.In(d, DriverMongo, DriverMySQL, DriverPostgres, DriverMemory):
		errs = append(errs, fmt.Errorf("invalid STORE_DRIVER: %q", d))
	case d == DriverMongo && cfg.Store.MongoURI == "":
		errs = append(errs, missing("MONGODB_URI"))
	case (d == DriverMySQL || d == DriverPostgres) && cfg.Store.DatabaseURL == "":
		errs = append(errs, missing("DATABASE_URL"))
	}
	if cfg.Store.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("STORE_CONNECT_TIMEOUT must be positive"))
	}
	return cfg, errors.Join(errs...)
}

func missing(key string) error {
	return fmt.Errorf("missing required env var: %s", key)
}
