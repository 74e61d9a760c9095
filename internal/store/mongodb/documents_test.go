package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", oid.Hex() + "00"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, repository.ErrMalformedID, bad)
	}
}

func TestToModel(t *testing.T) {
	oid := primitive.NewObjectID()
	c := cinemaDoc{ID: oid, Movie: "Dune", Description: "Sci-fi epic"}.toModel()
	assert.Equal(t, &model.Cinema{ID: oid.Hex(), Movie: "Dune", Description: "Sci-fi epic"}, c)
}

func TestSetFieldsOnlyProvided(t *testing.T) {
	assert.Equal(t, bson.M{"description": "New text"}, setFields(model.CinemaPatch{Description: strPtr("New text")}))
	assert.Equal(t, bson.M{"movie": "Dune", "image": ""}, setFields(model.CinemaPatch{Movie: strPtr("Dune"), Image: strPtr("")}))
}

func TestWrapClassifiesUnavailable(t *testing.T) {
	err := wrap("find", mongo.ErrClientDisconnected)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.ErrorIs(t, err, mongo.ErrClientDisconnected)

	err = wrap("find", context.DeadlineExceeded)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	err = wrap("insert", errors.New("E11000 duplicate key"))
	assert.NotErrorIs(t, err, repository.ErrStoreUnavailable)
}

// TestRoundTrip runs against a real server when MONGODB_URI is set.
func TestRoundTrip(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "cinema_test", "cinemas_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	defer func() {
		cs := s.(*cinemaStore)
		_ = cs.coll.Drop(context.Background())
		_ = s.Close(context.Background())
	}()

	c := &model.Cinema{Movie: "Dune", Description: "Sci-fi epic"}
	require.NoError(t, s.Insert(ctx, c))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	upd, err := s.Update(ctx, c.ID, model.CinemaPatch{Description: strPtr("New text")})
	require.NoError(t, err)
	assert.Equal(t, "Dune", upd.Movie)
	assert.Equal(t, "New text", upd.Description)

	require.NoError(t, s.Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Delete(ctx, c.ID), repository.ErrCinemaNotFound)
}
