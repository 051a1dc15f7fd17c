// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package studio_routers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	studio_api "github.com/rapidaai/voice-studio/api/studio"
	"github.com/rapidaai/voice-studio/config"
	"github.com/rapidaai/voice-studio/pkg/commons"
)

// NewEngine builds the gin engine with CORS open to the configured browser
// origins.
func NewEngine(cfg *config.AppConfig, logger commons.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	return engine
}

// StudioApiRoute wires the capture, upload and voice endpoints.
func StudioApiRoute(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, api *studio_api.StudioApi) {
	apiv1 := engine.Group("v1")
	{
		apiv1.PUT("/profile", api.SelectVoice)

		apiv1.POST("/capture/start", api.CaptureStart)
		apiv1.POST("/capture/pause", api.CapturePause)
		apiv1.POST("/capture/resume", api.CaptureResume)
		apiv1.POST("/capture/stop", api.CaptureStop)
		apiv1.POST("/capture/reset", api.CaptureReset)
		apiv1.GET("/capture", api.CaptureSnapshot)
		apiv1.GET("/capture/artifact", api.CaptureArtifact)
		apiv1.GET("/capture/live", api.CaptureLive)

		apiv1.POST("/uploads", api.UploadFiles)
		apiv1.POST("/uploads/recording", api.UploadRecording)
		apiv1.POST("/uploads/drain", api.UploadDrain)
		apiv1.GET("/uploads", api.UploadList)
		apiv1.DELETE("/uploads", api.UploadClear)

		apiv1.GET("/voices", api.VoiceList)
		apiv1.POST("/voices", api.VoiceCreate)
		apiv1.GET("/voices/:id", api.VoiceGet)
		apiv1.DELETE("/voices/:id", api.VoiceDelete)
		apiv1.POST("/voices/:id/speech", api.VoiceSpeech)
	}
}

// HealthCheckRoutes adds liveness and readiness probes.
func HealthCheckRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, api *studio_api.StudioApi) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	probe := engine.Group("")
	{
		probe.GET("/healthz", api.Healthz)
		probe.GET("/readiness", api.Readiness)
	}
}
