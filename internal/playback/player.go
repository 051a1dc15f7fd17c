// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_playback

import (
	"errors"
	"sync"

	"github.com/rapidaai/voice-studio/pkg/commons"
)

// State mirrors native media playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

var ErrNothingLoaded = errors.New("playback: nothing loaded")

// Sink renders audio somewhere — a local output device, a browser handle.
type Sink interface {
	Start(contentType string, data []byte) error
	Pause() error
	Resume() error
	Stop() error
}

// Controller plays a finished capture artifact or a synthesis result on
// demand. Loading a new clip releases whatever the sink held for the old
// one.
type Controller struct {
	logger commons.Logger
	sink   Sink

	mu          sync.Mutex
	state       State
	contentType string
	data        []byte
}

func NewController(logger commons.Logger, sink Sink) *Controller {
	return &Controller{logger: logger, sink: sink}
}

// Load replaces the current clip, stopping any active playback first.
func (c *Controller) Load(contentType string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped {
		_ = c.sink.Stop()
		c.state = StateStopped
	}
	c.contentType = contentType
	c.data = data
}

func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) == 0 {
		return ErrNothingLoaded
	}
	if c.state == StatePaused {
		if err := c.sink.Resume(); err != nil {
			return err
		}
		c.state = StatePlaying
		return nil
	}
	if err := c.sink.Start(c.contentType, c.data); err != nil {
		return err
	}
	c.state = StatePlaying
	return nil
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return nil
	}
	if err := c.sink.Pause(); err != nil {
		return err
	}
	c.state = StatePaused
	return nil
}

func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStopped {
		return nil
	}
	if err := c.sink.Stop(); err != nil {
		return err
	}
	c.state = StateStopped
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// NullSink discards audio; used when the daemon runs headless and playback
// happens in the browser instead.
type NullSink struct{}

func (NullSink) Start(string, []byte) error { return nil }
func (NullSink) Pause() error               { return nil }
func (NullSink) Resume() error              { return nil }
func (NullSink) Stop() error                { return nil }
