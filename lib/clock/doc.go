// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that latency
// measurements are reproducible under test.
//
// Production code accepts a [Clock] instead of calling time.Now
// directly. [Real] wraps the standard library. [Fake] returns a clock
// that advances by a fixed step on every reading, which makes every
// measured interval a known multiple of the step:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Millisecond)
//	start := c.Now()
//	elapsed := c.Now().Sub(start) // always 1ms
//
// The evaluator reads the clock exactly twice per query, so two runs
// over the same inputs report identical latency statistics.
//
// This package depends on no other toolhierarchy packages.
package clock
