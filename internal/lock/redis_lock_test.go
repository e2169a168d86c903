package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return s, client
}

func TestTryAcquireIsExclusive(t *testing.T) {
	_, client := setupTestRedis(t)
	l := NewRedisLock(client)
	ctx := context.Background()

	token, ok, err := l.TryAcquire(ctx, "ads:reconcile:lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = l.TryAcquire(ctx, "ads:reconcile:lock", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "ads:reconcile:lock", token))

	_, ok, err = l.TryAcquire(ctx, "ads:reconcile:lock", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseIgnoresForeignToken(t *testing.T) {
	s, client := setupTestRedis(t)
	l := NewRedisLock(client)
	ctx := context.Background()

	token, ok, err := l.TryAcquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Release(ctx, "k", "someone-else"))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestLockExpires(t *testing.T) {
	s, client := setupTestRedis(t)
	l := NewRedisLock(client)
	ctx := context.Background()

	_, ok, err := l.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(11 * time.Second)

	_, ok, err = l.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryAcquireReportsConnectionErrors(t *testing.T) {
	s, client := setupTestRedis(t)
	l := NewRedisLock(client)
	s.Close()

	_, ok, err := l.TryAcquire(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}
