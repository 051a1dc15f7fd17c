// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"sync"
	"time"
)

// DurationTracker counts elapsed whole seconds of active recording time.
// Paused intervals contribute nothing; resuming continues from the frozen
// value, never from zero. The value is derived from wall clock rather than
// a ticker so that pause takes effect the instant it is requested.
type DurationTracker struct {
	mu      sync.Mutex
	started time.Time
	acc     time.Duration
	running bool
	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
}

func NewDurationTracker() *DurationTracker {
	return &DurationTracker{clock: time.Now}
}

// Start begins counting from zero.
func (t *DurationTracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.acc = 0
	t.started = t.clock()
	t.running = true
}

// Pause freezes the elapsed value. No-op when already frozen.
func (t *DurationTracker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.acc += t.clock().Sub(t.started)
	t.running = false
}

// Resume continues counting from the frozen value. No-op when running.
func (t *DurationTracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.started = t.clock()
	t.running = true
}

// Stop freezes the tracker for good. Equivalent to Pause; kept separate so
// call sites read as lifecycle operations.
func (t *DurationTracker) Stop() {
	t.Pause()
}

// Elapsed returns whole seconds of active recording so far.
func (t *DurationTracker) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.acc
	if t.running {
		d += t.clock().Sub(t.started)
	}
	return int(d.Seconds())
}
