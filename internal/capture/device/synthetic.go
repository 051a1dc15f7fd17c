// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_device

import (
	"context"
	"math"
	"sync"
	"time"

	internal_capture "github.com/rapidaai/voice-studio/internal/capture"
	"github.com/rapidaai/voice-studio/pkg/commons"
)

// syntheticDevice generates a paced test tone instead of touching real audio
// hardware. Used in development and wherever PortAudio is not available.
type syntheticDevice struct {
	logger commons.Logger
}

func NewSyntheticDevice(logger commons.Logger) internal_capture.Device {
	return &syntheticDevice{logger: logger}
}

func (d *syntheticDevice) Open(ctx context.Context, opts internal_capture.CaptureOptions) (internal_capture.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &syntheticStream{
		opts:   opts,
		chunks: make(chan []byte, 16),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.produce()
	d.logger.Debugw("synthetic device opened",
		"sample_rate", opts.SampleRate, "channels", opts.Channels)
	return s, nil
}

type syntheticStream struct {
	opts     internal_capture.CaptureOptions
	analyser analyser
	chunks   chan []byte
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
	phase    float64
}

const syntheticChunkInterval = 100 * time.Millisecond

// produce emits 100ms sine chunks at the real-time rate until Close.
func (s *syntheticStream) produce() {
	defer close(s.done)
	defer close(s.chunks)
	ticker := time.NewTicker(syntheticChunkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			chunk := s.nextChunk()
			s.analyser.push(chunk, int(s.opts.Channels))
			select {
			case s.chunks <- chunk:
			case <-s.quit:
				return
			}
		}
	}
}

func (s *syntheticStream) nextChunk() []byte {
	samples := int(s.opts.SampleRate) / 10 // 100ms worth
	frame := 2 * int(s.opts.Channels)
	chunk := make([]byte, samples*frame)
	step := 2 * math.Pi * 440.0 / float64(s.opts.SampleRate)
	for i := 0; i < samples; i++ {
		v := int16(math.Sin(s.phase) * 0.25 * 32767)
		s.phase += step
		for c := 0; c < int(s.opts.Channels); c++ {
			off := i*frame + 2*c
			chunk[off] = byte(uint16(v))
			chunk[off+1] = byte(uint16(v) >> 8)
		}
	}
	return chunk
}

func (s *syntheticStream) Chunks() <-chan []byte { return s.chunks }

func (s *syntheticStream) Spectrum(dst []float64) int {
	return s.analyser.spectrum(dst)
}

func (s *syntheticStream) Close() error {
	s.once.Do(func() { close(s.quit) })
	<-s.done
	return nil
}
