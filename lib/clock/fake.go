// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock that starts at initial. Each call to Now
// returns the current value and then moves the clock forward by step.
// A zero step produces a clock that stands still until Advance is
// called.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time, step time.Duration) *FakeClock {
	return &FakeClock{current: initial, step: step}
}

// FakeClock is a deterministic Clock for tests.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
	reads   int
}

// Now returns the current fake time and advances it by the step.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	now := clock.current
	clock.current = clock.current.Add(clock.step)
	clock.reads++
	return now
}

// Advance moves the clock forward by d without counting as a read.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// Reads returns how many times Now has been called.
func (clock *FakeClock) Reads() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.reads
}
