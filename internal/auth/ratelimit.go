package auth

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window counter keyed by string (login uses
// "login:<ip>"). It is process-local: multiple instances each keep their
// own windows and the counters reset on restart.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

// Check records one attempt for key. It returns allowed=false together
// with the time left until the window resets once the limit is reached;
// attempts while blocked do not extend the window.
func (l *RateLimiter) Check(key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.resetAt) {
		l.buckets[key] = &rateBucket{count: 1, resetAt: now.Add(window)}
		return true, 0
	}

	if bucket.count >= limit {
		remaining := bucket.resetAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		return false, remaining
	}

	bucket.count++
	return true, 0
}
