package sqldb

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-api/internal/repository"
)

func TestRebind(t *testing.T) {
	q := "UPDATE cinemas SET movie = ?, description = ? WHERE id = ?"
	assert.Equal(t, q, dialects["mysql"].rebind(q))
	assert.Equal(t, "UPDATE cinemas SET movie = $1, description = $2 WHERE id = $3", dialects["postgres"].rebind(q))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "sqlite3", "file::memory:")
	assert.EqualError(t, err, `sqldb: unsupported driver "sqlite3"`)
}

func TestCanonicalID(t *testing.T) {
	id := ulid.Make().String()
	got, err := canonicalID(strings.ToLower(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = canonicalID("42")
	assert.ErrorIs(t, err, repository.ErrMalformedID)
	_, err = canonicalID("")
	assert.ErrorIs(t, err, repository.ErrMalformedID)
}

func TestWrapClassifiesUnavailable(t *testing.T) {
	assert.ErrorIs(t, wrap("get", mysql.ErrInvalidConn), repository.ErrStoreUnavailable)
	assert.ErrorIs(t, wrap("get", &pq.Error{Code: "08006"}), repository.ErrStoreUnavailable)
	assert.NotErrorIs(t, wrap("insert", &pq.Error{Code: "23505"}), repository.ErrStoreUnavailable)
	assert.NotErrorIs(t, wrap("insert", errors.New("syntax error")), repository.ErrStoreUnavailable)
}
