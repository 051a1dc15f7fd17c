// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rapidaai/voice-studio/config"
	"github.com/rapidaai/voice-studio/pkg/commons"
	"github.com/rapidaai/voice-studio/pkg/utils"
)

// VoiceProfile is the remote registry's voice-model record. The studio
// references profiles, it never owns them.
type VoiceProfile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Trained          bool      `json:"trained"`
	QualityScore     float64   `json:"quality_score"`
	SampleCount      int       `json:"sample_count"`
	TrainingDuration float64   `json:"training_duration"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SynthesisRequest asks the registry to speak text with a trained voice.
type SynthesisRequest struct {
	Text  string  `json:"text"`
	Speed float64 `json:"speed,omitempty"`
	Pitch float64 `json:"pitch,omitempty"`
}

// SynthesisResult carries the rendered audio.
type SynthesisResult struct {
	Audio       []byte
	ContentType string
}

type registryError struct {
	Error string `json:"error"`
}

// Client talks to the remote voice-model registry. Capture and upload are
// local concerns; everything stateful about voices lives behind this API.
type Client struct {
	logger commons.Logger
	http   *resty.Client
}

func NewClient(cfg *config.AppConfig, logger commons.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.RegistryHost).
		SetTimeout(30 * time.Second)
	if !utils.IsEmpty(cfg.RegistryKey) {
		client.SetAuthToken(cfg.RegistryKey)
	}
	return &Client{logger: logger, http: client}
}

// ListVoices returns every voice profile visible to the studio.
func (c *Client) ListVoices(ctx context.Context) ([]VoiceProfile, error) {
	var voices []VoiceProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&voices).
		Get("/v1/voices")
	if err != nil {
		return nil, fmt.Errorf("registry: list voices: %w", err)
	}
	if resp.IsError() {
		return nil, c.asError("list voices", resp)
	}
	return voices, nil
}

// GetVoice fetches one profile, including its readiness flag.
func (c *Client) GetVoice(ctx context.Context, id string) (*VoiceProfile, error) {
	var voice VoiceProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&voice).
		SetPathParam("id", id).
		Get("/v1/voices/{id}")
	if err != nil {
		return nil, fmt.Errorf("registry: get voice %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, c.asError("get voice", resp)
	}
	return &voice, nil
}

// CreateVoice registers a new, untrained profile.
func (c *Client) CreateVoice(ctx context.Context, name, description string) (*VoiceProfile, error) {
	if utils.IsEmpty(name) {
		return nil, fmt.Errorf("registry: voice name is required")
	}
	var voice VoiceProfile
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "description": description}).
		SetResult(&voice).
		Post("/v1/voices")
	if err != nil {
		return nil, fmt.Errorf("registry: create voice: %w", err)
	}
	if resp.IsError() {
		return nil, c.asError("create voice", resp)
	}
	c.logger.Infof("registry: created voice %s (%s)", voice.Name, voice.ID)
	return &voice, nil
}

// DeleteVoice removes a profile and its samples from the registry.
func (c *Client) DeleteVoice(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Delete("/v1/voices/{id}")
	if err != nil {
		return fmt.Errorf("registry: delete voice %s: %w", id, err)
	}
	if resp.IsError() {
		return c.asError("delete voice", resp)
	}
	return nil
}

// Synthesize renders text with the given trained voice and returns the
// audio bytes as delivered by the registry.
func (c *Client) Synthesize(ctx context.Context, id string, req SynthesisRequest) (*SynthesisResult, error) {
	if utils.IsEmpty(req.Text) {
		return nil, fmt.Errorf("registry: synthesis text is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetPathParam("id", id).
		Post("/v1/voices/{id}/speech")
	if err != nil {
		return nil, fmt.Errorf("registry: synthesize with voice %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, c.asError("synthesize", resp)
	}
	return &SynthesisResult{
		Audio:       resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

func (c *Client) asError(op string, resp *resty.Response) error {
	var body registryError
	if json.Unmarshal(resp.Body(), &body) == nil && !utils.IsEmpty(body.Error) {
		return fmt.Errorf("registry: %s: %s", op, body.Error)
	}
	return fmt.Errorf("registry: %s: status %d", op, resp.StatusCode())
}
