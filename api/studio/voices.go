// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package studio_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	internal_registry "github.com/rapidaai/voice-studio/internal/registry"
)

// VoiceList proxies the registry's profile listing.
//
// @Router /v1/voices [get]
func (api *StudioApi) VoiceList(c *gin.Context) {
	voices, err := api.registry.ListVoices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

// VoiceGet fetches one profile with its readiness flag.
func (api *StudioApi) VoiceGet(c *gin.Context) {
	voice, err := api.registry.GetVoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, voice)
}

// VoiceCreate registers a new, untrained profile.
func (api *StudioApi) VoiceCreate(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	voice, err := api.registry.CreateVoice(c.Request.Context(), body.Name, body.Description)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, voice)
}

// VoiceDelete removes a profile. Clears the selection when it pointed at
// the deleted profile.
func (api *StudioApi) VoiceDelete(c *gin.Context) {
	id := c.Param("id")
	if err := api.registry.DeleteVoice(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	api.mu.Lock()
	if api.voiceID == id {
		api.voiceID = ""
		api.voice = nil
	}
	api.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// VoiceSpeech synthesizes text with a trained voice and streams the audio
// back; the clip is also loaded into the playback controller.
//
// @Router /v1/voices/:id/speech [post]
func (api *StudioApi) VoiceSpeech(c *gin.Context) {
	var body internal_registry.SynthesisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	result, err := api.registry.Synthesize(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	api.playback.Load(result.ContentType, result.Audio)
	c.Data(http.StatusOK, result.ContentType, result.Audio)
}
