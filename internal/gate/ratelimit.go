package gate

import (
	"math/rand"
	"sync"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed   bool
	Remaining int
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by caller identity. Each
// pipeline owns its own instance; tables are per process, so the effective
// limit in a scaled deployment is max × instances.
//
// Fixed windows admit a burst at the boundary (max requests just before the
// reset plus max just after). That is the intended policy, not a defect.
type Limiter struct {
	mu        sync.Mutex
	max       int
	records   map[string]*record
	nextReset func(now time.Time) time.Time

	now       func() time.Time
	randFloat func() float64
}

// NewLimiter builds a limiter with a rolling window: the reset boundary is
// window after the first request of the current window.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		records: make(map[string]*record),
		nextReset: func(now time.Time) time.Time {
			return now.Add(window)
		},
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// NewDailyLimiter builds a limiter whose windows reset at UTC midnight.
func NewDailyLimiter(max int) *Limiter {
	return &Limiter{
		max:     max,
		records: make(map[string]*record),
		nextReset: func(now time.Time) time.Time {
			y, m, d := now.UTC().Date()
			return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
		},
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// Check records one request for key and reports whether it is allowed and
// how many requests remain in the current window. The read-check-increment
// sequence runs under one lock with no suspension points, so overlapping
// requests cannot interleave inside it.
func (l *Limiter) Check(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Opportunistic sweep of expired entries on roughly 10% of checks; the
	// table otherwise grows with the number of distinct callers.
	if l.randFloat() < 0.1 {
		for k, rec := range l.records {
			if now.After(rec.resetAt) || now.Equal(rec.resetAt) {
				delete(l.records, k)
			}
		}
	}

	rec, ok := l.records[key]
	if !ok || now.After(rec.resetAt) || now.Equal(rec.resetAt) {
		l.records[key] = &record{count: 1, resetAt: l.nextReset(now)}
		return Decision{Allowed: true, Remaining: l.max - 1}
	}

	if rec.count >= l.max {
		return Decision{Allowed: false, Remaining: 0}
	}

	rec.count++
	return Decision{Allowed: true, Remaining: l.max - rec.count}
}

// ResetAt returns the current window boundary for key, or the zero time when
// no window is active. Used for the Retry-After style response header.
func (l *Limiter) ResetAt(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[key]
	if !ok {
		return time.Time{}
	}
	return rec.resetAt
}
