package secret

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestRedisStore(t *testing.T, capacity int, ttl time.Duration) (*RedisStore, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := NewRedisStore(client, capacity, ttl, time.Second)
	require.NoError(t, err)
	s.now = clock.now
	return s, mr, clock
}

func TestRedisStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	ttl := 300 * time.Second
	s, mr, _ := newTestRedisStore(t, 100, ttl)

	require.NoError(t, s.Put(ctx, "E123", "7654321"))

	mr.FastForward(ttl / 2)
	v, ok, err := s.Get(ctx, "E123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7654321", v)

	mr.FastForward(ttl/2 + time.Second)
	_, ok, err = s.Get(ctx, "E123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestRedisStore(t, 3, time.Minute)

	for i := 0; i < 5; i++ {
		clock.t = clock.t.Add(time.Second)
		require.NoError(t, s.Put(ctx, fmt.Sprintf("k%d", i), "v"))
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, key := range []string{"k0", "k1"} {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	for _, key := range []string{"k2", "k3", "k4"} {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}
}

func TestRedisStore_LenIgnoresExpiredEntries(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestRedisStore(t, 10, time.Minute)

	require.NoError(t, s.Put(ctx, "a", "1"))
	clock.t = clock.t.Add(2 * time.Minute)
	require.NoError(t, s.Put(ctx, "b", "2"))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRedisStore_RejectsZeroCapacity(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewRedisStore(client, 0, time.Minute, time.Second)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = NewRedisStore(client, 10, 0, time.Second)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestRedisStore_OperationContextHasDeadline(t *testing.T) {
	s, _, _ := newTestRedisStore(t, 10, time.Minute)

	ctx, cancel := s.operationContext(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	s.opTimeout = 0
	ctx, cancel = s.operationContext(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}
