package llm

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Acquire(t *testing.T) {
	l := NewRateLimiter(map[string]LimitConfig{
		"claude": {RequestsPerMinute: 6000, MaxConcurrent: 2},
	}, LimitConfig{})

	ctx := context.Background()
	r1, err := l.Acquire(ctx, "claude")
	if err != nil {
		t.Fatalf("Acquire 1: %v", err)
	}
	r2, err := l.Acquire(ctx, "claude")
	if err != nil {
		t.Fatalf("Acquire 2: %v", err)
	}

	// 并发槽已满，第三次应阻塞直到释放
	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(blocked, "claude"); err == nil {
		t.Error("Acquire 3 should block while both slots are held")
	}

	r1()
	r3, err := l.Acquire(ctx, "claude")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	r2()
	r3()
}

func TestRateLimiter_UnknownProviderUsesDefaults(t *testing.T) {
	l := NewRateLimiter(nil, LimitConfig{RequestsPerMinute: 6000, MaxConcurrent: 1})
	release, err := l.Acquire(context.Background(), "other")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	release()
}
