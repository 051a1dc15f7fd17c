// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"sync/atomic"
	"testing"
	"time"
)

type constantSpectrum struct {
	calls     int32
	magnitude float64
}

func (s *constantSpectrum) Spectrum(dst []float64) int {
	atomic.AddInt32(&s.calls, 1)
	for i := range dst {
		dst[i] = s.magnitude
	}
	return len(dst)
}

func waitForSample(t *testing.T, src *constantSpectrum) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&src.calls) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("monitor never sampled")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLevelMonitorScalesToPercent(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		want      float64
	}{
		{"silence", 0, 0},
		{"half scale", 127.5, 50},
		{"full scale", 255, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &constantSpectrum{magnitude: tt.magnitude}
			monitor := NewLevelMonitor(src, 5*time.Millisecond)
			monitor.Start()
			defer monitor.Stop()
			waitForSample(t, src)
			// The value settles after one frame since the input is constant.
			deadline := time.Now().Add(time.Second)
			for monitor.Value() != tt.want && time.Now().Before(deadline) {
				time.Sleep(time.Millisecond)
			}
			if got := monitor.Value(); got != tt.want {
				t.Fatalf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestLevelMonitorStopIsSynchronous(t *testing.T) {
	src := &constantSpectrum{magnitude: 200}
	monitor := NewLevelMonitor(src, 5*time.Millisecond)
	monitor.Start()
	waitForSample(t, src)

	monitor.Stop()
	after := atomic.LoadInt32(&src.calls)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&src.calls); got != after {
		t.Fatalf("sample fired after Stop: %d -> %d", after, got)
	}
	// Stop twice is fine.
	monitor.Stop()
}

func TestLevelMonitorValueClamped(t *testing.T) {
	src := &constantSpectrum{magnitude: 1000}
	monitor := NewLevelMonitor(src, 5*time.Millisecond)
	monitor.Start()
	defer monitor.Stop()
	waitForSample(t, src)
	deadline := time.Now().Add(time.Second)
	for monitor.Value() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := monitor.Value(); got != 100 {
		t.Fatalf("expected clamp at 100, got %f", got)
	}
}
