package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"ticket-booking/internal/data/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	stored, err := c.Set(ctx, 0, entity.DefaultTickets())
	require.NoError(t, err)
	assert.False(t, stored)

	tickets, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tickets)
	assert.NoError(t, c.Invalidate(ctx))
}

// newTestClient uses TEST_REDIS_ADDR when set and an in-process server otherwise.
func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
		t.Cleanup(func() { _ = client.Close() })
		if err := client.Ping(context.Background()).Err(); err != nil {
			t.Skipf("redis unavailable: %v", err)
		}
		require.NoError(t, client.FlushDB(context.Background()).Err())
		return client, nil
	}

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, server
}

func TestRedisTicketCache(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	c := NewRedisTicketCache(client, time.Minute)
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	stored, err := c.Set(ctx, gen, entity.DefaultTickets())
	require.NoError(t, err)
	require.True(t, stored)

	tickets, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, tickets, 3)
	assert.Equal(t, entity.TierVIP, tickets[0].Tier)
	assert.Equal(t, 500, tickets[2].Total)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTicketCache_SetAfterInvalidateIsDropped(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	c := NewRedisTicketCache(client, time.Minute)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	// a write commits between the reader's load and its Set
	require.NoError(t, c.Invalidate(ctx))

	stored, err := c.Set(ctx, gen, entity.DefaultTickets())
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	stored, err = c.Set(ctx, next, entity.DefaultTickets())
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestRedisTicketCache_Expires(t *testing.T) {
	client, server := newTestClient(t)
	if server == nil {
		t.Skip("needs the in-process server clock")
	}
	ctx := context.Background()
	c := NewRedisTicketCache(client, 5*time.Second)

	stored, err := c.Set(ctx, 0, entity.DefaultTickets())
	require.NoError(t, err)
	require.True(t, stored)

	server.FastForward(6 * time.Second)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
