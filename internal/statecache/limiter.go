// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package statecache

import "time"

// DefaultSweepInterval is how often Limiter permits a sweep by default.
const DefaultSweepInterval = time.Second

// Limiter permits an action at most once per interval. An interval of zero
// or less permits every call.
type Limiter struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewLimiter returns a limiter whose first Allow succeeds.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, now: time.Now}
}

// Allow reports whether the interval has elapsed since the last permitted
// call, and if so starts a new interval.
func (l *Limiter) Allow() bool {
	if l.interval <= 0 {
		return true
	}
	now := l.now()
	if !l.last.IsZero() && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
