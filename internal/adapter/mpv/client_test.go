package mpv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Command(t *testing.T) {
	fake, conn := newFakeMPV(t)
	fake.props["time-pos"] = 12.5

	c := NewClient(conn, nil)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pos, err := c.GetFloat(ctx, "time-pos")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, pos, 0.001)

	_, err = c.GetFloat(ctx, "duration")
	assert.ErrorIs(t, err, ErrPropertyUnavailable)

	_, err = c.Command(ctx, "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error running command")
}

func TestClient_ObserveDeliversEvents(t *testing.T) {
	fake, conn := newFakeMPV(t)

	c := NewClient(conn, nil)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.Observe(ctx, 7, "pause"))

	ev := <-c.Events()
	assert.Equal(t, "property-change", ev.Name)
	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, "pause", ev.Property)
	assert.JSONEq(t, "true", string(ev.Data))

	require.NoError(t, c.SetProperty(ctx, "pause", false))
	ev = <-c.Events()
	assert.JSONEq(t, "false", string(ev.Data))

	require.NoError(t, c.Unobserve(ctx, 7))
	assert.Equal(t, 0, fake.Observers())
}

func TestClient_ClosedConnection(t *testing.T) {
	_, conn := newFakeMPV(t)

	c := NewClient(conn, nil)
	require.NoError(t, c.Close())

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("client did not notice closed connection")
	}

	_, ok := <-c.Events()
	assert.False(t, ok, "events channel closes with the connection")

	_, err := c.Command(context.Background(), "get_property", "pause")
	assert.ErrorIs(t, err, ErrClosed)
}
