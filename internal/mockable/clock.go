// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mockable provides a clock that defaults to wall-clock time but
// can be pinned for deterministic tests, adapted from the teacher
// corpus's utils/timer/mockable.Clock. Skov uses it to stamp block
// arrival times (spec.md §3, BlockPtr.ArrivalTime) without making every
// test racy against time.Now.
package mockable

import "time"

// Clock returns either the real wall clock or a pinned time.
type Clock struct {
	time   time.Time
	mocked bool
}

// NewClock returns a Clock backed by the real wall clock.
func NewClock() *Clock {
	return &Clock{time: time.Now()}
}

// Now returns the pinned time if Set has been called, else time.Now().
func (c *Clock) Now() time.Time {
	if c.mocked {
		return c.time
	}
	return time.Now()
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.time = t
	c.mocked = true
}

// Advance moves a pinned clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.time = c.time.Add(d)
}

// Real unpins the clock, returning it to wall-clock time.
func (c *Clock) Real() {
	c.mocked = false
}
