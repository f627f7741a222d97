// Package ratelimit implements fixed-window request counting keyed by client identifier.
//
// A window starts on the first request for an identifier and ends window later.
// Expired windows are replaced lazily by the next request, so a burst straddling
// a boundary can admit up to 2*max requests in a short span. Callers that need
// a sliding guarantee should not use this package.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RetryAfter returns the time left until the window resets, never negative.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Store counts requests per identifier. Implementations must make the
// compare-and-increment atomic.
type Store interface {
	Check(ctx context.Context, identifier string, window time.Duration, max int) (Result, error)
}

// record is the counter kept for an identifier while its window is active.
type record struct {
	count     int
	resetTime time.Time
}

// apply runs the fixed-window transition on rec at instant now and returns the
// new record plus the decision. rec may be nil. A non-positive max admits
// nothing and leaves rec untouched.
func apply(rec *record, now time.Time, window time.Duration, max int) (*record, Result) {
	if max <= 0 {
		return rec, Result{Allowed: false, Limit: 0, Remaining: 0, ResetTime: now.Add(window)}
	}
	if rec == nil || !now.Before(rec.resetTime) {
		rec = &record{count: 1, resetTime: now.Add(window)}
		return rec, Result{Allowed: true, Limit: max, Remaining: max - 1, ResetTime: rec.resetTime}
	}
	if rec.count >= max {
		return rec, Result{Allowed: false, Limit: max, Remaining: 0, ResetTime: rec.resetTime}
	}
	rec.count++
	return rec, Result{Allowed: true, Limit: max, Remaining: max - rec.count, ResetTime: rec.resetTime}
}
