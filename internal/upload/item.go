// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_upload

import (
	"sync"

	"github.com/google/uuid"
)

// Status is the tagged per-item state. Exactly one variant applies at a
// time, so illegal combinations (progress on a completed item, a reason on
// a pending one) cannot be expressed.
type Status interface{ isStatus() }

type Pending struct{}

type InProgress struct{ Fraction float64 }

type Completed struct{}

type Failed struct{ Reason string }

func (Pending) isStatus()    {}
func (InProgress) isStatus() {}
func (Completed) isStatus()  {}
func (Failed) isStatus()     {}

// Source records how the bytes entered the queue; it selects the wire
// encoding used for transmission.
type Source int

const (
	// SourceFile items were picked from disk and travel as multipart bodies.
	SourceFile Source = iota
	// SourceRecording items come from a finished capture artifact and travel
	// as JSON with base64 audio.
	SourceRecording
)

// Item is one pending sample in the upload queue.
type Item struct {
	ID          string
	Filename    string
	ContentType string
	Source      Source
	Data        []byte

	mu     sync.Mutex
	status Status
}

func newItem(filename, contentType string, source Source, data []byte) *Item {
	return &Item{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		Source:      source,
		Data:        data,
		status:      Pending{},
	}
}

// Status returns the current tagged status.
func (it *Item) Status() Status {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.status
}

// terminal reports whether the item reached Completed or Failed.
func (it *Item) terminal() bool {
	switch it.Status().(type) {
	case Completed, Failed:
		return true
	}
	return false
}

func (it *Item) pending() bool {
	_, ok := it.Status().(Pending)
	return ok
}

func (it *Item) begin() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.status = InProgress{Fraction: 0}
}

// setProgress advances the in-flight fraction; it never moves backwards and
// is ignored outside InProgress.
func (it *Item) setProgress(fraction float64) {
	it.mu.Lock()
	defer it.mu.Unlock()
	cur, ok := it.status.(InProgress)
	if !ok {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction > cur.Fraction {
		it.status = InProgress{Fraction: fraction}
	}
}

func (it *Item) complete() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.status = Completed{}
}

func (it *Item) fail(reason string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.status = Failed{Reason: reason}
}

// View is the JSON-facing projection of an item.
type View struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	ContentType string  `json:"content_type"`
	Size        int     `json:"size"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// View renders the item for the UI list.
func (it *Item) View() View {
	v := View{
		ID:          it.ID,
		Filename:    it.Filename,
		ContentType: it.ContentType,
		Size:        len(it.Data),
	}
	switch st := it.Status().(type) {
	case Pending:
		v.Status = "pending"
	case InProgress:
		v.Status = "in_progress"
		v.Progress = st.Fraction
	case Completed:
		v.Status = "completed"
		v.Progress = 1
	case Failed:
		v.Status = "failed"
		v.Error = st.Reason
	}
	return v
}
