package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"n": 3}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got map[string]int
	hit, err := c.Get(ctx, "k", &got)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got["n"] != 3 {
		t.Errorf("got %v", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if hit, _ := c.Get(ctx, "k", &got); hit {
		t.Error("deleted key still readable")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 45*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if hit, _ := c.Get(ctx, "k", &got); !hit {
		t.Fatal("fresh entry missed")
	}

	now = now.Add(46 * time.Second)
	if hit, _ := c.Get(ctx, "k", &got); hit {
		t.Error("expired entry still readable")
	}
}

func TestGetOrSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	calls := 0
	loader := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := GetOrSet(ctx, c, "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	second, err := GetOrSet(ctx, c, "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("unexpected values: %v, %v", first, second)
	}
}

func TestGetOrSetLoaderError(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	wantErr := errors.New("upstream down")
	_, err := GetOrSet(ctx, c, "k", time.Minute, func() (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	// Nothing cached after a failed load.
	var got string
	if hit, _ := c.Get(ctx, "k", &got); hit {
		t.Error("failed load left a cache entry")
	}
}
