package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultCeiling = 30
	DefaultWindow  = time.Minute
)

// Limiter is a sliding-window rate limiter. It keeps the timestamps of
// previously authorized requests and delays callers so that no more than
// ceiling requests are authorized within any trailing window.
type Limiter struct {
	mu      sync.Mutex
	ceiling int
	window  time.Duration
	stamps  []time.Time
	now     func() time.Time
}

func NewLimiter(ceiling int, window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Limiter{
		ceiling: ceiling,
		window:  window,
		now:     time.Now,
	}
}

// Acquire blocks until the caller is authorized to issue one request under
// the configured ceiling. It only returns an error when the context ends
// while waiting; the limiter itself has no failure modes.
//
// When the window is full, the wait is computed once from the oldest
// retained timestamp and is not re-validated after waking: exactly one slot
// is guaranteed to have expired by then. Decisions are serialized, so
// concurrent callers queue up on the same lock and the ceiling holds for
// the instance as a whole.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Prune entries that fell out of the trailing window.
	kept := 0
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			l.stamps[kept] = stamp
			kept++
		}
	}
	l.stamps = l.stamps[:kept]

	if len(l.stamps) >= l.ceiling {
		wait := l.window
		if len(l.stamps) > 0 {
			wait = l.window - now.Sub(l.stamps[0])
		}

		if wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return errors.WithStack(err)
			}
		}

		now = l.now()
	}

	l.stamps = append(l.stamps, now)

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
