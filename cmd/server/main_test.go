package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-api/internal/config"
	"github.com/iliyamo/cinema-api/internal/events"
	"github.com/iliyamo/cinema-api/internal/handler"
	"github.com/iliyamo/cinema-api/internal/middleware"
	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
	"github.com/iliyamo/cinema-api/internal/router"
	"github.com/iliyamo/cinema-api/internal/store/memory"
)

// brokerStub stands in for the AMQP publisher; nothing consumes what it gets.
type brokerStub struct {
	mu    sync.Mutex
	kinds []string
}

func (b *brokerStub) Publish(_ context.Context, ev events.CinemaChanged) error {
	b.mu.Lock()
	b.kinds = append(b.kinds, ev.Kind)
	b.mu.Unlock()
	return nil
}

func TestDeleteIsVisibleThroughCacheWithBroker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := middleware.NewResponseCache(config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cinema:cache",
	}, rdb)

	broker := &brokerStub{}
	repo := repository.NewCinemaRepo(memory.NewCinemaStore(), eventBus(cache, broker), zerolog.Nop())
	e := echo.New()
	router.RegisterCinema(e, handler.NewCinemaHandler(repo, zerolog.Nop()), cache.Middleware())

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/cinema", `{"movie":"Dune","description":"Sci-fi epic"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created model.Cinema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	target := "/api/cinema/" + created.ID
	assert.Equal(t, "MISS", do(http.MethodGet, target, "").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", do(http.MethodGet, target, "").Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, do(http.MethodDelete, target, "").Code)
	rec = do(http.MethodGet, target, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	assert.Equal(t, []string{events.KindCreated, events.KindDeleted}, broker.kinds)
}

func TestEventBusWithoutBroker(t *testing.T) {
	cache := middleware.NewResponseCache(config.CacheConfig{}, nil)
	assert.NoError(t, eventBus(cache, nil).Publish(context.Background(), events.New(events.KindUpdated, "x", "")))
}
