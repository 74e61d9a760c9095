package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-api/internal/config"
	"github.com/iliyamo/cinema-api/internal/events"
	"github.com/iliyamo/cinema-api/internal/handler"
	"github.com/iliyamo/cinema-api/internal/logger"
	"github.com/iliyamo/cinema-api/internal/middleware"
	"github.com/iliyamo/cinema-api/internal/repository"
	"github.com/iliyamo/cinema-api/internal/router"
	"github.com/iliyamo/cinema-api/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment variables win

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// run connects the store before accepting traffic and serves until ctx is
// cancelled. A failed initial store connection is returned, not retried.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.Close(cctx); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info().Msg("redis connected")
	} else {
		log.Info().Msg("redis not configured or unreachable; response cache off, rate limiting per process")
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	pub, closeEvents := setupEvents(ctx, cfg.Events, cache, log)
	defer closeEvents()

	repo := repository.NewCinemaRepo(st, pub, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSOrigins),
	)
	router.RegisterRoutes(e, repo)
	router.RegisterCinema(e, handler.NewCinemaHandler(repo, log),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		cache.Middleware(),
	)

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// setupEvents returns the publisher handed to the repository. The local
// response cache is always purged synchronously, before the write is
// answered. When a broker is configured and reachable the event is also
// published to RabbitMQ, and consumed from it to purge the caches of other
// replicas.
func setupEvents(ctx context.Context, cfg config.EventsConfig, cache *middleware.ResponseCache, log zerolog.Logger) (events.Publisher, func()) {
	if cfg.AMQPURL == "" {
		log.Info().Msg("no broker configured; change events stay in process")
		return eventBus(cache, nil), func() {}
	}
	pub, err := events.DialPublisher(cfg.AMQPURL, cfg.Exchange, log)
	if err != nil {
		log.Warn().Err(err).Msg("broker unreachable; change events stay in process")
		return eventBus(cache, nil), func() {}
	}
	go func() {
		_ = events.Consume(ctx, cfg.AMQPURL, cfg.Exchange, cache.Invalidate, log)
	}()
	return eventBus(cache, pub), func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("close event publisher")
		}
	}
}

// eventBus invalidates cache in process and forwards to remote when set.
func eventBus(cache *middleware.ResponseCache, remote events.Publisher) *events.Dispatcher {
	d := events.NewDispatcher()
	d.Subscribe(cache.Invalidate)
	if remote != nil {
		d.Subscribe(remote.Publish)
	}
	return d
}
