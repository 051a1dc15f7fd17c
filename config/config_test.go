// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsProduceValidConfig(t *testing.T) {
	v, err := InitConfig()
	assert.NoError(t, err)

	cfg, err := GetApplicationConfig(v)
	assert.NoError(t, err)
	assert.Equal(t, "voice-studio", cfg.Name)
	assert.Equal(t, 9822, cfg.Port)
	assert.Equal(t, "portaudio", cfg.CaptureDevice)
	assert.Equal(t, uint32(44100), cfg.SampleRate)
	assert.Equal(t, uint16(1), cfg.Channels)
	assert.Equal(t, 600, cfg.UploadTimeoutSeconds)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestCaptureDeviceRestricted(t *testing.T) {
	v, err := InitConfig()
	assert.NoError(t, err)
	v.Set("CAPTURE_DEVICE", "alsa")

	_, err = GetApplicationConfig(v)
	assert.Error(t, err)
}

func TestChannelsBounded(t *testing.T) {
	v, err := InitConfig()
	assert.NoError(t, err)
	v.Set("CHANNELS", 8)

	_, err = GetApplicationConfig(v)
	assert.Error(t, err)
}

func TestOverridesApply(t *testing.T) {
	v, err := InitConfig()
	assert.NoError(t, err)
	v.Set("CAPTURE_DEVICE", "synthetic")
	v.Set("REGISTRY_HOST", "http://registry.local:8080")
	v.Set("UPLOAD_TIMEOUT_SECONDS", 0)

	cfg, err := GetApplicationConfig(v)
	assert.NoError(t, err)
	assert.Equal(t, "synthetic", cfg.CaptureDevice)
	assert.Equal(t, "http://registry.local:8080", cfg.RegistryHost)
	assert.Equal(t, 0, cfg.UploadTimeoutSeconds)
}
