package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsUTC(t *testing.T) {
	ev := New(KindCreated, "abc", "Dune")
	assert.Equal(t, "cinema.created", ev.Kind)
	assert.Equal(t, "abc", ev.CinemaID)

	ts, err := time.Parse(time.RFC3339Nano, ev.OccurredAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
}

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(func(_ context.Context, ev CinemaChanged) error {
		got = append(got, "a:"+ev.Kind)
		return nil
	})
	d.Subscribe(func(_ context.Context, ev CinemaChanged) error {
		got = append(got, "b:"+ev.Kind)
		return errors.New("boom")
	})

	err := d.Publish(context.Background(), New(KindDeleted, "1", ""))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"a:cinema.deleted", "b:cinema.deleted"}, got)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewDispatcher().Publish(context.Background(), New(KindUpdated, "1", "")))
}

func TestDecode(t *testing.T) {
	body, err := json.Marshal(New(KindUpdated, "42", "Alien"))
	require.NoError(t, err)

	ev, err := decode(body)
	require.NoError(t, err)
	assert.Equal(t, KindUpdated, ev.Kind)
	assert.Equal(t, "42", ev.CinemaID)
	assert.Equal(t, "Alien", ev.Movie)

	_, err = decode([]byte(`{"cinema_id":"42"}`))
	assert.Error(t, err)

	_, err = decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestSleepHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
	assert.True(t, sleep(context.Background(), time.Millisecond))
}
