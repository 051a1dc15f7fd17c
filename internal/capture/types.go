// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"context"
	"errors"
)

// State is the capture session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the state as its lowercase name.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

var (
	// ErrDeviceUnavailable is returned by Start when device access is denied
	// or no input device exists. The session stays Idle and holds nothing.
	ErrDeviceUnavailable = errors.New("capture: device unavailable")

	// ErrNotIdle is returned by Start while another recording is in flight.
	ErrNotIdle = errors.New("capture: session already active")

	// ErrNotRecording / ErrNotPaused / ErrNotStopped guard the remaining
	// transitions of the session state machine.
	ErrNotRecording = errors.New("capture: session is not recording")
	ErrNotPaused    = errors.New("capture: session is not paused")
	ErrNotStopped   = errors.New("capture: session is not stopped")

	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("capture: session closed")
)

// CaptureOptions are the constraints requested when acquiring the input
// device. Devices apply what their backend supports; SampleRate and Channels
// are mandatory, the processing flags are best-effort hints.
type CaptureOptions struct {
	SampleRate       uint32
	Channels         uint16
	EchoCancellation bool
	NoiseSuppression bool
	AutoGain         bool
}

// Device is an audio input source that can be acquired for capture.
type Device interface {
	// Open acquires the device with the given constraints and starts the
	// live stream. Acquisition failures wrap ErrDeviceUnavailable.
	Open(ctx context.Context, opts CaptureOptions) (Stream, error)
}

// Stream is a live, exclusively-owned capture stream.
type Stream interface {
	// Chunks returns the channel delivering encoded PCM (LINEAR16 little
	// endian) as it is captured. The channel is closed when the stream
	// closes, from either side.
	Chunks() <-chan []byte

	// Spectrum fills dst with the most recent frequency-bin magnitudes,
	// scaled to 0..255 per bin, and returns the number of bins written.
	// Safe to call concurrently with chunk delivery.
	Spectrum(dst []float64) int

	// Close stops capture and releases the device. Idempotent.
	Close() error
}

// RecommendedSeconds is the advisory amount of material for a good clone.
// It never gates any operation.
const RecommendedSeconds = 30

// Snapshot is a point-in-time view of a session for the UI layer.
type Snapshot struct {
	State            State   `json:"state"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	Level            float64 `json:"level"`
	HasArtifact      bool    `json:"has_artifact"`
	MeetsRecommended bool    `json:"meets_recommended"`
}
