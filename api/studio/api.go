// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package studio_api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rapidaai/voice-studio/config"
	internal_capture "github.com/rapidaai/voice-studio/internal/capture"
	internal_playback "github.com/rapidaai/voice-studio/internal/playback"
	internal_registry "github.com/rapidaai/voice-studio/internal/registry"
	internal_upload "github.com/rapidaai/voice-studio/internal/upload"
	"github.com/rapidaai/voice-studio/pkg/commons"
	"github.com/rapidaai/voice-studio/pkg/utils"
)

// StudioApi is the browser-facing control surface over the capture session,
// the upload queue and the remote registry.
type StudioApi struct {
	cfg         *config.AppConfig
	logger      commons.Logger
	session     *internal_capture.Session
	coordinator *internal_upload.Coordinator
	registry    *internal_registry.Client
	playback    *internal_playback.Controller

	mu      sync.Mutex
	voiceID string
	// voice is the selected profile as last fetched from the registry; it is
	// refreshed when an upload drain finishes so the queue view carries the
	// profile's current training state.
	voice *internal_registry.VoiceProfile
}

func New(
	cfg *config.AppConfig,
	logger commons.Logger,
	session *internal_capture.Session,
	coordinator *internal_upload.Coordinator,
	registry *internal_registry.Client,
	playback *internal_playback.Controller,
) *StudioApi {
	return &StudioApi{
		cfg:         cfg,
		logger:      logger,
		session:     session,
		coordinator: coordinator,
		registry:    registry,
		playback:    playback,
	}
}

// selectedVoice returns the currently selected destination profile.
func (api *StudioApi) selectedVoice() string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.voiceID
}

// storeVoiceProfile caches a freshly-fetched profile, unless the selection
// changed while the fetch was in flight.
func (api *StudioApi) storeVoiceProfile(profile *internal_registry.VoiceProfile) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if profile != nil && profile.ID == api.voiceID {
		api.voice = profile
	}
}

func (api *StudioApi) cachedVoiceProfile() *internal_registry.VoiceProfile {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.voice
}

// SelectVoice stores the target voice profile for capture and uploads.
//
// @Router /v1/profile [put]
func (api *StudioApi) SelectVoice(c *gin.Context) {
	var body struct {
		VoiceID string `json:"voice_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voice_id is required"})
		return
	}
	api.mu.Lock()
	if api.voiceID != body.VoiceID {
		api.voice = nil
	}
	api.voiceID = body.VoiceID
	api.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"voice_id": body.VoiceID})
}

// CaptureStart acquires the device and begins recording.
//
// @Router /v1/capture/start [post]
func (api *StudioApi) CaptureStart(c *gin.Context) {
	if utils.IsEmpty(api.selectedVoice()) {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no voice profile selected"})
		return
	}
	if err := api.session.Start(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, internal_capture.ErrNotIdle):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, internal_capture.ErrDeviceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, api.session.Snapshot())
}

// CapturePause freezes the running recording.
func (api *StudioApi) CapturePause(c *gin.Context) {
	if err := api.session.Pause(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.session.Snapshot())
}

// CaptureResume continues a paused recording.
func (api *StudioApi) CaptureResume(c *gin.Context) {
	if err := api.session.Resume(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.session.Snapshot())
}

// CaptureStop finalizes the artifact, releases the device and hands the
// clip to the playback controller.
func (api *StudioApi) CaptureStop(c *gin.Context) {
	artifact, err := api.session.Stop()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	api.playback.Load(artifact.ContentType, artifact.Data)
	c.JSON(http.StatusOK, gin.H{
		"snapshot":         api.session.Snapshot(),
		"artifact_bytes":   len(artifact.Data),
		"content_type":     artifact.ContentType,
		"duration_seconds": artifact.DurationSeconds,
	})
}

// CaptureReset discards the artifact and returns to idle.
func (api *StudioApi) CaptureReset(c *gin.Context) {
	if err := api.session.Reset(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	_ = api.playback.Stop()
	api.playback.Load("", nil)
	c.JSON(http.StatusOK, api.session.Snapshot())
}

// CaptureSnapshot reports state, elapsed seconds and the current level.
func (api *StudioApi) CaptureSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, api.session.Snapshot())
}

// CaptureArtifact serves the finished recording for in-browser playback.
func (api *StudioApi) CaptureArtifact(c *gin.Context) {
	artifact, err := api.session.Artifact()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no finished recording"})
		return
	}
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// UploadFiles queues one or more picked files. Items failing pre-flight
// validation stay visible in the failed state and are never transmitted.
//
// @Router /v1/uploads [post]
func (api *StudioApi) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form expected"})
		return
	}
	files := form.File["audio"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no audio files in request"})
		return
	}
	views := make([]internal_upload.View, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unable to read %s", fh.Filename)})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unable to read %s", fh.Filename)})
			return
		}
		item := api.coordinator.AddFile(fh.Filename, fh.Header.Get("Content-Type"), data)
		views = append(views, item.View())
	}
	c.JSON(http.StatusAccepted, gin.H{"items": views})
}

// UploadRecording queues the finished capture artifact.
//
// @Router /v1/uploads/recording [post]
func (api *StudioApi) UploadRecording(c *gin.Context) {
	artifact, err := api.session.Artifact()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no finished recording to upload"})
		return
	}
	filename := fmt.Sprintf("recording-%s.wav", uuid.New().String()[:8])
	item := api.coordinator.AddRecording(filename, artifact.ContentType, artifact.Data)
	c.JSON(http.StatusAccepted, gin.H{"items": []internal_upload.View{item.View()}})
}

// UploadDrain transmits every pending item, sequentially, to the selected
// profile. When the queue is exhausted the profile is refreshed from the
// registry so training state stays current.
//
// @Router /v1/uploads/drain [post]
func (api *StudioApi) UploadDrain(c *gin.Context) {
	voiceID := api.selectedVoice()
	if utils.IsEmpty(voiceID) {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no voice profile selected"})
		return
	}
	// The drain outlives the request; it runs on its own context so the
	// browser navigating away cannot abort an in-flight transfer.
	go func() {
		ctx := context.Background()
		err := api.coordinator.Drain(ctx, voiceID, func() {
			profile, err := api.registry.GetVoice(ctx, voiceID)
			if err != nil {
				api.logger.Warnf("profile refresh after drain: %v", err)
				return
			}
			api.storeVoiceProfile(profile)
		})
		if err != nil {
			api.logger.Warnf("upload drain rejected: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "draining", "voice_id": voiceID})
}

// UploadList reports the queue in submission order, together with the
// selected profile as of the last completed drain.
func (api *StudioApi) UploadList(c *gin.Context) {
	resp := gin.H{"items": api.coordinator.Items()}
	if voice := api.cachedVoiceProfile(); voice != nil {
		resp["voice"] = voice
	}
	c.JSON(http.StatusOK, resp)
}

// UploadClear drops terminal and pending items from the queue view.
func (api *StudioApi) UploadClear(c *gin.Context) {
	api.coordinator.Clear()
	c.JSON(http.StatusOK, gin.H{"items": api.coordinator.Items()})
}
