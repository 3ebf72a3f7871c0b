package secret

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryStore(t *testing.T, capacity int, ttl time.Duration) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(capacity, ttl)
	require.NoError(t, err)
	return s
}

func TestMemoryStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	ttl := 200 * time.Millisecond
	s := newTestMemoryStore(t, 10, ttl)

	require.NoError(t, s.Put(ctx, "E123", "1234567"))

	time.Sleep(ttl / 2)
	v, ok, err := s.Get(ctx, "E123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234567", v)

	time.Sleep(ttl/2 + 50*time.Millisecond)
	_, ok, err = s.Get(ctx, "E123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ReadDoesNotExtendTTL(t *testing.T) {
	ctx := context.Background()
	ttl := 200 * time.Millisecond
	s := newTestMemoryStore(t, 10, ttl)

	require.NoError(t, s.Put(ctx, "k", "v"))
	for i := 0; i < 3; i++ {
		time.Sleep(ttl / 4)
		_, _, _ = s.Get(ctx, "k")
	}
	time.Sleep(ttl/4 + 50*time.Millisecond)

	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_OverwriteReplacesValue(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t, 10, time.Minute)

	require.NoError(t, s.Put(ctx, "k", "old"))
	require.NoError(t, s.Put(ctx, "k", "new"))

	v, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestMemoryStore_CapacityBound(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t, 3, time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("k%d", i), "v"))
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, ok, _ := s.Get(ctx, "k0")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "k4")
	assert.True(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t, 100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			_ = s.Put(ctx, key, "v")
			_, _, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 10)
}

func TestNewMemoryStore_RejectsUnboundedOptions(t *testing.T) {
	for _, tc := range []struct {
		capacity int
		ttl      time.Duration
	}{
		{0, time.Minute},
		{-1, time.Minute},
		{10, 0},
	} {
		s, err := NewMemoryStore(tc.capacity, tc.ttl)
		assert.ErrorIs(t, err, ErrInvalidOptions, "capacity=%d ttl=%s", tc.capacity, tc.ttl)
		assert.Nil(t, s)
	}
}
