package lock

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventregistration/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, "lock:", slog.New(slog.NewTextHandler(io.Discard, nil)))

	release, err := l.Acquire(context.Background(), "EVT-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:EVT-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "EVT-1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)

	release()
	assert.False(t, mr.Exists("lock:EVT-1"))

	again, err := l.Acquire(context.Background(), "EVT-1", time.Minute)
	require.NoError(t, err)
	again()
}

func TestRedisLocker_releaseKeepsForeignLock(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, "lock:", slog.New(slog.NewTextHandler(io.Discard, nil)))

	release, err := l.Acquire(context.Background(), "EVT-1", time.Second)
	require.NoError(t, err)

	// Lock expired and was taken by someone else.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:EVT-1", "someone-else"))

	release()
	v, err := mr.Get("lock:EVT-1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}
