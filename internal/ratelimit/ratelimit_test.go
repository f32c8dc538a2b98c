package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterBlocksOverLimit(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := l.Allow(ctx, "1.2.3.4")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok {
		t.Fatalf("fourth request should be blocked")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("first request for key a should pass")
	}

	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Fatalf("key b should not be affected by key a")
	}

	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatalf("second request for key a should be blocked")
	}
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	l := NewMemoryLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("first request should pass")
	}

	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatalf("second request inside window should be blocked")
	}

	time.Sleep(20 * time.Millisecond)

	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatalf("request after window expiry should pass")
	}
}
