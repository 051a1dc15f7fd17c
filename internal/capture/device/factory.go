// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_device

import (
	"fmt"

	"github.com/rapidaai/voice-studio/config"
	internal_capture "github.com/rapidaai/voice-studio/internal/capture"
	"github.com/rapidaai/voice-studio/pkg/commons"
)

// New selects the configured capture backend.
func New(cfg *config.AppConfig, logger commons.Logger) (internal_capture.Device, error) {
	switch cfg.CaptureDevice {
	case "portaudio":
		return NewPortAudioDevice(logger), nil
	case "synthetic":
		return NewSyntheticDevice(logger), nil
	default:
		return nil, fmt.Errorf("unknown capture device %q", cfg.CaptureDevice)
	}
}
