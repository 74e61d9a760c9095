package sqldb

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
)

func strPtr(s string) *string { return &s }

// TestRoundTrip runs against a real server when DATABASE_URL is set.
// STORE_DRIVER picks the dialect (mysql by default).
func TestRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	driver := os.Getenv("STORE_DRIVER")
	if driver != "postgres" {
		driver = "mysql"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, driver, dsn)
	require.NoError(t, err)
	defer func() { _ = s.Close(context.Background()) }()
	require.NoError(t, s.Ping(ctx))

	var ids []string
	for _, m := range []string{"A", "B", "C"} {
		c := &model.Cinema{Movie: m, Description: m + " description"}
		require.NoError(t, s.Insert(ctx, c))
		ids = append(ids, c.ID)
	}
	defer func() {
		for _, id := range ids {
			_ = s.Delete(context.Background(), id)
		}
	}()

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	pos := map[string]int{}
	for i, c := range all {
		pos[c.ID] = i
	}
	require.Contains(t, pos, ids[0])
	assert.Less(t, pos[ids[0]], pos[ids[1]])
	assert.Less(t, pos[ids[1]], pos[ids[2]])

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	got, err := s.Get(ctx, strings.ToLower(ids[0]))
	require.NoError(t, err)
	assert.Equal(t, &model.Cinema{ID: ids[0], Movie: "A", Description: "A description"}, got)

	upd, err := s.Update(ctx, ids[0], model.CinemaPatch{Description: strPtr("New text"), Image: strPtr("a.png")})
	require.NoError(t, err)
	assert.Equal(t, &model.Cinema{ID: ids[0], Movie: "A", Description: "New text", Image: "a.png"}, upd)

	// same values again: still found even though no row changes
	_, err = s.Update(ctx, ids[0], model.CinemaPatch{Image: strPtr("a.png")})
	require.NoError(t, err)

	// the failed transaction is rolled back and leaves the pool usable
	_, err = s.Update(ctx, ulid.Make().String(), model.CinemaPatch{Movie: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrCinemaNotFound)
	got, err = s.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "New text", got.Description)

	require.NoError(t, s.Delete(ctx, ids[1]))
	assert.ErrorIs(t, s.Delete(ctx, ids[1]), repository.ErrCinemaNotFound)
	_, err = s.Get(ctx, ids[1])
	assert.ErrorIs(t, err, repository.ErrCinemaNotFound)
}
