// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/rapidaai/voice-studio/pkg/commons"
	"github.com/rapidaai/voice-studio/pkg/utils"
)

var (
	// ErrNoProfile is the caller-level error for draining without a selected
	// destination profile.
	ErrNoProfile = errors.New("upload: no destination profile selected")

	// ErrDrainInProgress rejects overlapping drains; uploads are strictly
	// sequential across the whole queue.
	ErrDrainInProgress = errors.New("upload: drain already in progress")

	// ErrTransport marks network failures, including a stalled transfer
	// promoted by the per-item timeout.
	ErrTransport = errors.New("upload: network failure")

	// ErrServer marks non-success responses from the registry.
	ErrServer = errors.New("upload: server rejected sample")
)

// errorBody is the failure envelope returned by the registry.
type errorBody struct {
	Error string `json:"error"`
}

// Coordinator transmits queued samples to the voice-model registry one at a
// time, in submission order. Failure is isolated per item: a failed item
// never aborts the remainder of the queue. At most one item is in flight at
// any instant.
type Coordinator struct {
	logger  commons.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	// timeout bounds each item's transfer; 0 leaves a stalled transfer in
	// flight indefinitely.
	timeout time.Duration

	mu       sync.Mutex
	items    []*Item
	draining bool
}

func NewCoordinator(logger commons.Logger, baseURL, apiKey string, timeout time.Duration) *Coordinator {
	return &Coordinator{
		logger:  logger,
		client:  &http.Client{},
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// AddFile queues a file-picked sample. Validation runs before the item is
// admitted as Pending; a rejected item is retained in the visible list in
// its failed state and is never transmitted.
func (c *Coordinator) AddFile(filename, contentType string, data []byte) *Item {
	return c.add(filename, contentType, SourceFile, data)
}

// AddRecording queues a finished capture artifact.
func (c *Coordinator) AddRecording(filename, contentType string, data []byte) *Item {
	return c.add(filename, contentType, SourceRecording, data)
}

func (c *Coordinator) add(filename, contentType string, source Source, data []byte) *Item {
	it := newItem(filename, contentType, source, data)
	if err := validate(contentType, len(data)); err != nil {
		it.fail(err.Error())
		c.logger.Warnw("upload: item rejected before queueing",
			"filename", filename, "reason", err.Error())
	}
	c.mu.Lock()
	c.items = append(c.items, it)
	c.mu.Unlock()
	return it
}

// Items returns the current queue projection in submission order.
func (c *Coordinator) Items() []View {
	c.mu.Lock()
	defer c.mu.Unlock()
	views := make([]View, 0, len(c.items))
	for _, it := range c.items {
		views = append(views, it.View())
	}
	return views
}

// Clear drops every terminal and pending item from the queue. An in-flight
// item stays; mid-transfer cancellation is not supported.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.terminal() || it.pending() {
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
}

// Drain transmits every Pending item to the given profile, one at a time,
// each to a terminal state, then invokes onComplete exactly once — however
// many items failed. Blocks until the queue is exhausted.
func (c *Coordinator) Drain(ctx context.Context, profileID string, onComplete func()) error {
	if utils.IsEmpty(profileID) {
		return ErrNoProfile
	}
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return ErrDrainInProgress
	}
	c.draining = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.draining = false
		c.mu.Unlock()
		if onComplete != nil {
			onComplete()
		}
	}()

	for {
		it := c.nextPending()
		if it == nil {
			return nil
		}
		it.begin()
		if err := c.transmit(ctx, profileID, it); err != nil {
			it.fail(err.Error())
			c.logger.Warnw("upload: item failed",
				"item", it.ID, "filename", it.Filename, "reason", err.Error())
			continue
		}
		it.complete()
		c.logger.Infow("upload: item completed", "item", it.ID, "filename", it.Filename)
	}
}

// nextPending returns the earliest-submitted Pending item, or nil.
func (c *Coordinator) nextPending() *Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.pending() {
			return it
		}
	}
	return nil
}

// transmit sends one item and classifies the outcome. Progress advances as
// request-body bytes are handed to the transport.
func (c *Coordinator) transmit(ctx context.Context, profileID string, it *Item) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, contentType, err := c.encode(it)
	if err != nil {
		return err
	}

	body := newProgressReader(bytes.NewReader(payload), int64(len(payload)), it.setProgress)
	url := fmt.Sprintf("%s/v1/voices/%s/samples", c.baseURL, profileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(payload))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && !utils.IsEmpty(eb.Error) {
			return fmt.Errorf("%w: %s", ErrServer, eb.Error)
		}
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}
	return nil
}

// encode renders the wire body for the item's source: multipart with a
// single binary audio field for file picks, JSON with base64 audio for live
// recordings.
func (c *Coordinator) encode(it *Item) ([]byte, string, error) {
	switch it.Source {
	case SourceRecording:
		payload, err := json.Marshal(map[string]string{
			"filename":     it.Filename,
			"content_type": it.ContentType,
			"audio_base64": base64.StdEncoding.EncodeToString(it.Data),
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return payload, "application/json", nil
	default:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("audio", it.Filename)
		if err == nil {
			_, err = part.Write(it.Data)
		}
		if err == nil {
			err = w.Close()
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	}
}
