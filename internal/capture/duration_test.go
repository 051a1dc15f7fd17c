// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"testing"
	"time"
)

func newTrackedClock() (*DurationTracker, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	tracker := NewDurationTracker()
	tracker.clock = clk.Now
	return tracker, clk
}

func TestDurationPausedIntervalsExcluded(t *testing.T) {
	tracker, clk := newTrackedClock()

	tracker.Start()
	clk.Advance(5 * time.Second)
	if got := tracker.Elapsed(); got != 5 {
		t.Fatalf("after 5s: got %d", got)
	}

	tracker.Pause()
	clk.Advance(90 * time.Second)
	if got := tracker.Elapsed(); got != 5 {
		t.Fatalf("paused time counted: got %d", got)
	}

	tracker.Resume()
	clk.Advance(5 * time.Second)
	if got := tracker.Elapsed(); got != 10 {
		t.Fatalf("after resume+5s: got %d", got)
	}

	tracker.Stop()
	clk.Advance(time.Hour)
	if got := tracker.Elapsed(); got != 10 {
		t.Fatalf("stopped value drifted: got %d", got)
	}
}

func TestDurationSubSecondTruncation(t *testing.T) {
	tracker, clk := newTrackedClock()
	tracker.Start()
	clk.Advance(4*time.Second + 900*time.Millisecond)
	if got := tracker.Elapsed(); got != 4 {
		t.Fatalf("expected whole seconds, got %d", got)
	}
}

func TestDurationRepeatedPauseResumeIdempotent(t *testing.T) {
	tracker, clk := newTrackedClock()
	tracker.Start()
	clk.Advance(3 * time.Second)
	tracker.Pause()
	tracker.Pause()
	clk.Advance(3 * time.Second)
	tracker.Resume()
	tracker.Resume()
	clk.Advance(2 * time.Second)
	if got := tracker.Elapsed(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestDurationStartResetsAccumulator(t *testing.T) {
	tracker, clk := newTrackedClock()
	tracker.Start()
	clk.Advance(7 * time.Second)
	tracker.Stop()

	tracker.Start()
	clk.Advance(2 * time.Second)
	if got := tracker.Elapsed(); got != 2 {
		t.Fatalf("previous run leaked in: got %d", got)
	}
}
