// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`

	// Remote voice-model registry the studio uploads to and synthesizes from.
	RegistryHost string `mapstructure:"registry_host" validate:"required"`
	RegistryKey  string `mapstructure:"registry_key"`

	// Capture device selection: "portaudio" for the OS input device,
	// "synthetic" for the built-in tone generator used in dev and tests.
	CaptureDevice  string `mapstructure:"capture_device" validate:"oneof=portaudio synthetic"`
	SampleRate     uint32 `mapstructure:"sample_rate" validate:"required"`
	Channels       uint16 `mapstructure:"channels" validate:"min=1,max=2"`
	EchoCancel     bool   `mapstructure:"echo_cancel"`
	NoiseSuppress  bool   `mapstructure:"noise_suppress"`
	AutoGain       bool   `mapstructure:"auto_gain"`

	// Per-item upload timeout in seconds. 0 disables the timeout and a stalled
	// transfer stays in flight indefinitely.
	UploadTimeoutSeconds int `mapstructure:"upload_timeout_seconds"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env variables.")
	}

	return vConfig, nil
}

// GetApplicationConfig unmarshals and validates the studio configuration.
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	// keeping watch on https://github.com/spf13/viper/issues/188

	v.SetDefault("SERVICE_NAME", "voice-studio")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", 9822)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")

	v.SetDefault("REGISTRY_HOST", "http://localhost:5001")
	v.SetDefault("REGISTRY_KEY", "")

	v.SetDefault("CAPTURE_DEVICE", "portaudio")
	v.SetDefault("SAMPLE_RATE", 44100)
	v.SetDefault("CHANNELS", 1)
	v.SetDefault("ECHO_CANCEL", true)
	v.SetDefault("NOISE_SUPPRESS", true)
	v.SetDefault("AUTO_GAIN", true)

	v.SetDefault("UPLOAD_TIMEOUT_SECONDS", 600)
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"})
}
