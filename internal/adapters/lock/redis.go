package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eventregistration/internal/domain"
)

// releaseScript deletes the key only if it still holds our token, so an expired lock re-acquired
// by another request is never released by the previous holder.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

type redisLocker struct {
	rdb    redis.Cmdable
	prefix string
	poll   time.Duration
	logger *slog.Logger
}

// NewRedisLocker returns a Locker backed by SET NX PX, shared by every process using the same Redis.
func NewRedisLocker(rdb redis.Cmdable, prefix string, logger *slog.Logger) domain.Locker {
	return &redisLocker{rdb: rdb, prefix: prefix, poll: 50 * time.Millisecond, logger: logger}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	full := l.prefix + key
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", full, err)
		}
		if ok {
			return func() {
				// The caller's context may already be cancelled; release on a fresh one.
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err(); err != nil {
					l.logger.Warn("failed to release lock", "key", full, "error", err)
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockNotAcquired, full, ctx.Err())
		case <-ticker.C:
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
