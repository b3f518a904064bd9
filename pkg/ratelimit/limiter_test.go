package ratelimit

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestAcquireUnderCeiling(t *testing.T) {
	limiter := NewLimiter(5, time.Minute)

	ctx := context.Background()

	start := time.Now()

	for i := 0; i < 5; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected no wait under ceiling, waited %s", elapsed)
	}
}

func TestAcquireWaitsWhenFull(t *testing.T) {
	window := 200 * time.Millisecond
	limiter := NewLimiter(2, window)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	start := time.Now()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("%+v", err)
	}

	if elapsed := time.Since(start); elapsed < window-50*time.Millisecond {
		t.Errorf("expected to wait about %s, waited %s", window, elapsed)
	}
}

func TestAcquirePrunesExpiredEntries(t *testing.T) {
	limiter := NewLimiter(2, time.Minute)

	current := time.Now()
	limiter.now = func() time.Time { return current }

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	// Jump past the window so both entries expire.
	current = current.Add(time.Minute + time.Second)

	start := time.Now()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("%+v", err)
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected no wait after pruning, waited %s", elapsed)
	}

	if got := len(limiter.stamps); got != 1 {
		t.Errorf("expected 1 retained timestamp, got %d", got)
	}
}

func TestAcquireZeroCeilingAlwaysWaits(t *testing.T) {
	window := 100 * time.Millisecond
	limiter := NewLimiter(0, window)

	ctx := context.Background()

	start := time.Now()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("%+v", err)
	}

	if elapsed := time.Since(start); elapsed < window-20*time.Millisecond {
		t.Errorf("expected to wait a full window, waited %s", elapsed)
	}
}

func TestAcquireContextCancelled(t *testing.T) {
	limiter := NewLimiter(1, time.Minute)

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("%+v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Acquire(ctx); err == nil {
		t.Error("expected an error when the context ends during the wait")
	}
}

func TestConcurrentAcquiresRespectCeiling(t *testing.T) {
	ceiling := 5
	window := 300 * time.Millisecond
	limiter := NewLimiter(ceiling, window)

	ctx := context.Background()

	var mu sync.Mutex
	var authorized []time.Time

	var wg sync.WaitGroup

	for i := 0; i < 2*ceiling; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := limiter.Acquire(ctx); err != nil {
				t.Errorf("%+v", err)
				return
			}

			mu.Lock()
			authorized = append(authorized, time.Now())
			mu.Unlock()
		}()
	}

	wg.Wait()

	sort.Slice(authorized, func(i, j int) bool { return authorized[i].Before(authorized[j]) })

	// Every run of ceiling+1 consecutive authorizations must span more than
	// the window, otherwise the bound was violated.
	margin := 20 * time.Millisecond
	for i := 0; i+ceiling < len(authorized); i++ {
		span := authorized[i+ceiling].Sub(authorized[i])
		if span < window-margin {
			t.Errorf("%d authorizations within %s, window is %s", ceiling+1, span, window)
		}
	}
}
