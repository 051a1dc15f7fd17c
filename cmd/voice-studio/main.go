// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	studio_api "github.com/rapidaai/voice-studio/api/studio"
	"github.com/rapidaai/voice-studio/config"
	internal_capture "github.com/rapidaai/voice-studio/internal/capture"
	internal_device "github.com/rapidaai/voice-studio/internal/capture/device"
	internal_playback "github.com/rapidaai/voice-studio/internal/playback"
	internal_registry "github.com/rapidaai/voice-studio/internal/registry"
	internal_upload "github.com/rapidaai/voice-studio/internal/upload"
	"github.com/rapidaai/voice-studio/pkg/commons"
	studio_routers "github.com/rapidaai/voice-studio/router"
)

func main() {
	vConfig, err := config.InitConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	device, err := internal_device.New(cfg, logger)
	if err != nil {
		logger.Fatalf("capture device: %v", err)
	}

	session := internal_capture.NewSession(logger, device, internal_capture.CaptureOptions{
		SampleRate:       cfg.SampleRate,
		Channels:         cfg.Channels,
		EchoCancellation: cfg.EchoCancel,
		NoiseSuppression: cfg.NoiseSuppress,
		AutoGain:         cfg.AutoGain,
	})
	defer session.Close()

	coordinator := internal_upload.NewCoordinator(
		logger,
		cfg.RegistryHost,
		cfg.RegistryKey,
		time.Duration(cfg.UploadTimeoutSeconds)*time.Second,
	)
	registry := internal_registry.NewClient(cfg, logger)
	playback := internal_playback.NewController(logger, internal_playback.NullSink{})

	api := studio_api.New(cfg, logger, session, coordinator, registry, playback)

	engine := studio_routers.NewEngine(cfg, logger)
	studio_routers.HealthCheckRoutes(cfg, engine, logger, api)
	studio_routers.StudioApiRoute(cfg, engine, logger, api)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("voice-studio listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		// The capture session must release the device before the process
		// exits, whatever state it is in.
		if err := session.Close(); err != nil {
			logger.Warnf("capture teardown: %v", err)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatalf("voice-studio: %v", err)
	}
	logger.Info("voice-studio stopped")
}
