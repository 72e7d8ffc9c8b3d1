package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR не задан")
	}
	client, err := Connect(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test:"+uuid.NewString())
}

func TestTryLockIsExclusive(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	ok, err := c.TryLock(ctx, "tick", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.TryLock(ctx, "tick", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Unlock(ctx, "tick"))
	ok, err = c.TryLock(ctx, "tick", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, c.Unlock(ctx, "tick"))
}

func TestDayIndexRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	_, ok, err := c.LoadDayIndex(ctx, "2026-10-15")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SaveDayIndex(ctx, "2026-10-15", 42))
	idx, ok, err := c.LoadDayIndex(ctx, "2026-10-15")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 42, idx)

	_, ok, err = c.LoadDayIndex(ctx, "2026-10-16")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeyPrefix(t *testing.T) {
	require.Equal(t, "app:tick", NewRedis(nil, "app").key("tick"))
	require.Equal(t, "tick", NewRedis(nil, "").key("tick"))
}
