// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockSteps(t *testing.T) {
	clock := Fake(epoch, 2*time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	if !first.Equal(epoch) {
		t.Fatalf("first Now() = %v, want %v", first, epoch)
	}
	if elapsed := second.Sub(first); elapsed != 2*time.Millisecond {
		t.Fatalf("elapsed = %v, want 2ms", elapsed)
	}
	if clock.Reads() != 2 {
		t.Fatalf("Reads() = %d, want 2", clock.Reads())
	}
}

func TestFakeClockZeroStepStandsStill(t *testing.T) {
	clock := Fake(epoch, 0)
	if !clock.Now().Equal(clock.Now()) {
		t.Fatal("zero-step clock moved between reads")
	}

	clock.Advance(5 * time.Second)
	if got, want := clock.Now(), epoch.Add(5*time.Second); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestRealClockMovesForward(t *testing.T) {
	clock := Real()
	first := clock.Now()
	if clock.Now().Before(first) {
		t.Fatal("real clock went backwards")
	}
}
