// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_device

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	internal_capture "github.com/rapidaai/voice-studio/internal/capture"
	"github.com/rapidaai/voice-studio/pkg/commons"
)

const portaudioFrames = 1024

// portaudioDevice captures from the OS default input device via PortAudio.
// Echo cancellation, noise suppression and auto gain are requested
// constraints the host backend applies where supported; PortAudio itself
// does not expose switches for them.
type portaudioDevice struct {
	logger commons.Logger
}

func NewPortAudioDevice(logger commons.Logger) internal_capture.Device {
	return &portaudioDevice{logger: logger}
}

func (d *portaudioDevice) Open(ctx context.Context, opts internal_capture.CaptureOptions) (internal_capture.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", internal_capture.ErrDeviceUnavailable, err)
	}

	in := make([]int16, portaudioFrames*int(opts.Channels))
	stream, err := portaudio.OpenDefaultStream(int(opts.Channels), 0, float64(opts.SampleRate), portaudioFrames, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: open stream: %v", internal_capture.ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: start stream: %v", internal_capture.ErrDeviceUnavailable, err)
	}

	s := &portaudioStream{
		logger: d.logger,
		opts:   opts,
		stream: stream,
		in:     in,
		chunks: make(chan []byte, 16),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.read()
	d.logger.Infow("portaudio device opened",
		"sample_rate", opts.SampleRate,
		"channels", opts.Channels,
		"echo_cancellation", opts.EchoCancellation,
		"noise_suppression", opts.NoiseSuppression,
		"auto_gain", opts.AutoGain)
	return s, nil
}

type portaudioStream struct {
	logger   commons.Logger
	opts     internal_capture.CaptureOptions
	stream   *portaudio.Stream
	in       []int16
	analyser analyser
	chunks   chan []byte
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func (s *portaudioStream) read() {
	defer close(s.done)
	defer close(s.chunks)
	for {
		select {
		case <-s.quit:
			return
		default:
		}
		if err := s.stream.Read(); err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			s.logger.Warnf("portaudio read: %v", err)
			continue
		}
		chunk := make([]byte, 2*len(s.in))
		for i, v := range s.in {
			chunk[2*i] = byte(uint16(v))
			chunk[2*i+1] = byte(uint16(v) >> 8)
		}
		s.analyser.push(chunk, int(s.opts.Channels))
		select {
		case s.chunks <- chunk:
		case <-s.quit:
			return
		}
	}
}

func (s *portaudioStream) Chunks() <-chan []byte { return s.chunks }

func (s *portaudioStream) Spectrum(dst []float64) int {
	return s.analyser.spectrum(dst)
}

func (s *portaudioStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		// Stop before waiting: the read loop can be blocked inside
		// stream.Read until the stream stops.
		if e := s.stream.Stop(); e != nil {
			err = e
		}
		<-s.done
		if e := s.stream.Close(); e != nil && err == nil {
			err = e
		}
		if e := portaudio.Terminate(); e != nil && err == nil {
			err = e
		}
	})
	return err
}
