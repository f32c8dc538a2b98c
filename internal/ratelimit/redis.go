package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding-window limiter backed by a redis sorted set,
// suitable when several instances share the same login surface.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// slidingWindow drops entries older than the window, counts what is left and
// records the new hit only when under the limit. Runs atomically in redis.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	if redis.call('ZCARD', key) >= limit then
		return 0
	end

	redis.call('ZADD', key, now, now)
	redis.call('PEXPIRE', key, window_ms)

	return 1
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	result, err := slidingWindow.Run(ctx, l.client, []string{"ratelimit:" + key},
		now.Add(-l.window).UnixMicro(),
		now.UnixMicro(),
		l.limit,
		l.window.Milliseconds(),
	).Int()

	if err != nil {
		return false, err
	}

	return result == 1, nil
}

// Close is a no-op; the redis client is managed by the caller.
func (l *RedisLimiter) Close() error {
	return nil
}

// NewRedisClient builds a client with short timeouts so a slow redis cannot
// stall the request path.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}
