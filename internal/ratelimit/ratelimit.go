// Package ratelimit guards brute-forceable endpoints, the login route in
// particular. A redis-backed limiter is used when redis is configured so the
// limit holds across replicas; otherwise a per-process window applies.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether one more request is allowed for the key.
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// MemoryLimiter is a fixed-window limiter local to this process.
type MemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientBucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]

	if !ok || now.After(b.windowEnd) {
		l.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(l.window),
		}

		return true, nil
	}

	if b.count >= l.limit {
		return false, nil
	}

	b.count++
	return true, nil
}

func (l *MemoryLimiter) Close() error {
	return nil
}
