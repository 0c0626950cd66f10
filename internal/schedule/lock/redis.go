package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was re-taken by another writer is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisClient is the subset of *redis.Client the locker uses
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker is a SetNX lock shared by every replica.
type RedisLocker struct {
	client RedisClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *logger.Logger
}

// RedisOptions tunes a RedisLocker
type RedisOptions struct {
	// TTL bounds how long a crashed holder can block a key
	TTL time.Duration
	// Wait bounds how long Lock polls for a held key
	Wait time.Duration
	// Retry is the polling interval
	Retry time.Duration
}

// NewRedisLocker creates a locker on client
func NewRedisLocker(client RedisClient, opts RedisOptions, log *logger.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 50 * time.Millisecond
	}
	return &RedisLocker{
		client: client,
		ttl:    opts.TTL,
		wait:   opts.Wait,
		retry:  opts.Retry,
		logger: log.WithComponent("redis-locker"),
	}
}

// Lock polls SetNX until it wins, the wait elapses or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if acquired {
			break
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	l.logger.Debug().Str("key", key).Str("token", token).Msg("lock acquired")

	released := false
	return func() {
		if released {
			return
		}
		released = true

		// the caller's context may already be cancelled; release on a fresh one
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		n, err := l.client.Eval(relCtx, releaseScript, []string{key}, token).Int64()
		if err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to release lock, it will expire")
			return
		}
		if n == 0 {
			l.logger.Warn().Str("key", key).Msg("lock expired before release")
		}
	}, nil
}
