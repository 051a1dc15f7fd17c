// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"sync"
	"time"

	"github.com/rapidaai/voice-studio/pkg/utils"
)

// DefaultLevelInterval is the sampling cadence of the level monitor.
const DefaultLevelInterval = 50 * time.Millisecond

// LevelBins is the number of frequency bins read per sample.
const LevelBins = 128

// SpectrumSource yields instantaneous frequency-bin magnitudes (0..255).
type SpectrumSource interface {
	Spectrum(dst []float64) int
}

// LevelMonitor samples the live input spectrum on a fixed cadence and
// reduces each frame to a single 0..100 loudness value. Stop is synchronous:
// once it returns, no further sample runs. The value is advisory only.
type LevelMonitor struct {
	source   SpectrumSource
	interval time.Duration

	mu    sync.Mutex
	value float64

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewLevelMonitor(source SpectrumSource, interval time.Duration) *LevelMonitor {
	if interval <= 0 {
		interval = DefaultLevelInterval
	}
	return &LevelMonitor{
		source:   source,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sampling loop.
func (m *LevelMonitor) Start() {
	go m.loop()
}

func (m *LevelMonitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	bins := make([]float64, LevelBins)
	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			// A tick and Stop can be ready at once; cancellation wins so a
			// sample never fires against a stream being torn down.
			select {
			case <-m.quit:
				return
			default:
			}
			n := m.source.Spectrum(bins)
			avg := utils.AverageFloat64(bins[:n])
			m.mu.Lock()
			m.value = utils.Clamp(avg/255.0*100.0, 0, 100)
			m.mu.Unlock()
		}
	}
}

// Stop cancels the loop and waits for it to exit. Idempotent.
func (m *LevelMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.quit) })
	<-m.done
}

// Value returns the most recent loudness sample in [0,100].
func (m *LevelMonitor) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}
