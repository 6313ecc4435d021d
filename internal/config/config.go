// Package config loads the service configuration. Values come from, in
// order of precedence: environment variables, an optional .env file in the
// working directory, and built-in defaults.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values. The model matches what the storefront widget shipped
// with; a missing API key is not an error here, it surfaces later as a
// recoverable chat initialization failure.
const (
	DefaultModel         = "gemini-3-flash-preview"
	DefaultListenAddr    = ":8080"
	DefaultStreamTimeout = 30 * time.Second
)

// Config holds the full service configuration.
type Config struct {
	GeminiAPIKey  string
	Model         string
	ListenAddr    string
	StreamTimeout time.Duration
	LogLevel      string
}

// Load reads configuration from the environment and an optional .env file.
// It never fails on a missing .env file or missing credential.
func Load() (*Config, error) {
	// Best effort: a repo-local .env mirrors how the widget received its
	// API key at build time.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BUYXTRA")
	v.AutomaticEnv()

	v.SetDefault("model", DefaultModel)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("stream_timeout", DefaultStreamTimeout)
	v.SetDefault("log_level", "")

	// The credential keeps its conventional name rather than the
	// BUYXTRA_ prefix so existing Gemini setups work unchanged.
	if err := v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "BUYXTRA_GEMINI_API_KEY"); err != nil {
		return nil, err
	}

	cfg := &Config{
		GeminiAPIKey:  v.GetString("gemini_api_key"),
		Model:         v.GetString("model"),
		ListenAddr:    v.GetString("listen_addr"),
		StreamTimeout: v.GetDuration("stream_timeout"),
		LogLevel:      v.GetString("log_level"),
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = DefaultStreamTimeout
	}

	return cfg, nil
}
