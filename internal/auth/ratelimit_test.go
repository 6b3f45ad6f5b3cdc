package auth

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	const limit = 8
	window := 15 * time.Minute

	for i := 0; i < limit; i++ {
		allowed, _ := limiter.Check("login:1.2.3.4", limit, window)
		if !allowed {
			t.Fatalf("attempt %d blocked, want first %d allowed", i+1, limit)
		}
	}

	allowed, retryAfter := limiter.Check("login:1.2.3.4", limit, window)
	if allowed {
		t.Fatal("9th attempt within the window allowed")
	}
	if retryAfter <= 0 || retryAfter > window {
		t.Errorf("retryAfter = %v, want within (0, %v]", retryAfter, window)
	}

	// Other keys are unaffected.
	if ok, _ := limiter.Check("login:5.6.7.8", limit, window); !ok {
		t.Error("different key blocked")
	}

	// After the window passes, the same key starts a fresh bucket.
	now = now.Add(window + time.Second)
	if ok, _ := limiter.Check("login:1.2.3.4", limit, window); !ok {
		t.Error("attempt after window expiry blocked")
	}
}

func TestRateLimiterBlockedDoesNotExtendWindow(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	window := 15 * time.Minute
	for i := 0; i < 3; i++ {
		limiter.Check("k", 2, window)
	}

	now = now.Add(10 * time.Minute)
	_, retryAfter := limiter.Check("k", 2, window)
	if retryAfter > 5*time.Minute {
		t.Errorf("retryAfter = %v, want at most the remaining 5m", retryAfter)
	}
}
