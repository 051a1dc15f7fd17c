// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"bytes"
	"context"
	"sync"

	"github.com/rapidaai/voice-studio/pkg/commons"
)

// Session owns one live audio-recording lifecycle, from device acquisition to
// finished artifact. It composes the duration tracker and the level monitor
// and starts/stops them in lockstep with the capture state.
//
// State machine:
//
//	Idle →(Start)→ Recording ⇄(Pause/Resume)⇄ Paused
//	Recording/Paused →(Stop)→ Stopped →(Reset)→ Idle
//
// Every path out of Recording/Paused — Stop, Reset-after-Stop, Close — fully
// releases the device; Close does so unconditionally from any state. All
// cancellation is synchronous: when Pause, Stop or Close return, no level
// sample and no chunk write can still fire against the released stream.
type Session struct {
	logger commons.Logger
	device Device
	opts   CaptureOptions

	mu        sync.Mutex
	state     State
	closed    bool
	stream    Stream
	pcm       bytes.Buffer
	drainDone chan struct{}
	duration  *DurationTracker
	level     *LevelMonitor
	artifact  *Artifact
}

func NewSession(logger commons.Logger, device Device, opts CaptureOptions) *Session {
	return &Session{
		logger: logger,
		device: device,
		opts:   opts,
		state:  StateIdle,
	}
}

// Start acquires the input device and transitions Idle → Recording. On
// acquisition failure the session stays Idle and holds no resources; the
// returned error wraps ErrDeviceUnavailable.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateIdle {
		return ErrNotIdle
	}

	stream, err := s.device.Open(ctx, s.opts)
	if err != nil {
		s.logger.Errorf("capture: device acquisition failed: %v", err)
		return err
	}

	s.stream = stream
	s.pcm.Reset()
	s.artifact = nil
	s.drainDone = make(chan struct{})

	s.duration = NewDurationTracker()
	s.duration.Start()
	s.level = NewLevelMonitor(stream, DefaultLevelInterval)
	s.level.Start()

	s.state = StateRecording
	go s.drain(stream, s.drainDone)

	s.logger.Infow("capture: recording started",
		"sample_rate", s.opts.SampleRate, "channels", s.opts.Channels)
	return nil
}

// drain buffers incoming chunks while the session is Recording. Chunks that
// arrive while Paused are dropped; the device stays open so Resume is
// gapless from the device's point of view.
func (s *Session) drain(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		s.mu.Lock()
		if s.state == StateRecording && s.stream == stream {
			s.pcm.Write(chunk)
		}
		s.mu.Unlock()
	}
}

// Pause transitions Recording → Paused, freezes the duration tracker and
// cancels the level monitor loop before returning.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateRecording {
		return ErrNotRecording
	}
	s.state = StatePaused
	s.duration.Pause()
	if s.level != nil {
		s.level.Stop()
		s.level = nil
	}
	s.logger.Debug("capture: paused")
	return nil
}

// Resume transitions Paused → Recording, continuing the duration tracker
// from its frozen value and restarting the level monitor.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StatePaused {
		return ErrNotPaused
	}
	s.state = StateRecording
	s.duration.Resume()
	s.level = NewLevelMonitor(s.stream, DefaultLevelInterval)
	s.level.Start()
	s.logger.Debug("capture: resumed")
	return nil
}

// Stop finalizes the buffered chunks into a WAV artifact, releases the
// device and stops both monitors. Valid from Recording or Paused; stopping
// immediately after Start yields an empty-but-valid artifact.
func (s *Session) Stop() (*Artifact, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.state != StateRecording && s.state != StatePaused {
		s.mu.Unlock()
		return nil, ErrNotRecording
	}

	// Flip the state first so the drain loop discards anything still in
	// flight, then cancel the monitors while the lock pins the transition.
	// The buffer is detached here too: nothing writes to it once the state
	// is Stopped, and a Start racing the release below gets a fresh one.
	s.state = StateStopped
	s.duration.Stop()
	elapsed := s.duration.Elapsed()
	if s.level != nil {
		s.level.Stop()
		s.level = nil
	}
	stream := s.stream
	s.stream = nil
	done := s.drainDone
	s.drainDone = nil
	pcm := s.pcm.Bytes()
	s.pcm = bytes.Buffer{}
	s.mu.Unlock()

	if err := stream.Close(); err != nil {
		s.logger.Warnf("capture: stream close: %v", err)
	}
	<-done

	artifact := finalizeArtifact(pcm, s.opts, elapsed)

	s.mu.Lock()
	// Reset or Close may have run while the lock was released. The session
	// moved on; the finished artifact goes to the caller but must not be
	// installed on a session that is no longer Stopped.
	if s.state == StateStopped && !s.closed {
		s.artifact = artifact
	}
	s.mu.Unlock()

	s.logger.Infow("capture: recording stopped",
		"elapsed_seconds", elapsed, "artifact_bytes", len(artifact.Data))
	return artifact, nil
}

// Reset discards the finished artifact and returns the session to Idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateStopped {
		return ErrNotStopped
	}
	s.artifact = nil
	s.duration = nil
	s.state = StateIdle
	s.logger.Debug("capture: reset to idle")
	return nil
}

// Close tears the session down from any state, releasing the device and
// cancelling both monitor loops unconditionally. Idempotent; every
// operation afterwards returns ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.state = StateStopped
	if s.duration != nil {
		s.duration.Stop()
	}
	if s.level != nil {
		s.level.Stop()
		s.level = nil
	}
	stream := s.stream
	s.stream = nil
	done := s.drainDone
	s.drainDone = nil
	s.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			s.logger.Warnf("capture: stream close on teardown: %v", err)
		}
		<-done
	}
	s.logger.Debug("capture: session closed")
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Artifact returns the finished artifact; only present in Stopped.
func (s *Session) Artifact() (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact == nil {
		return nil, ErrNotStopped
	}
	return s.artifact, nil
}

// Snapshot returns a point-in-time view for rendering. Level is only
// meaningful while Recording and reads zero everywhere else.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := 0
	if s.duration != nil {
		elapsed = s.duration.Elapsed()
	}
	level := 0.0
	if s.state == StateRecording && s.level != nil {
		level = s.level.Value()
	}
	return Snapshot{
		State:            s.state,
		ElapsedSeconds:   elapsed,
		Level:            level,
		HasArtifact:      s.artifact != nil,
		MeetsRecommended: elapsed >= RecommendedSeconds,
	}
}
