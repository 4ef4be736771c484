// Package daemon manages the FitCoach daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	User      UserConfig      `toml:"user"`
	Webhook   WebhookConfig   `toml:"webhook"`
	Store     StoreConfig     `toml:"store"`
	API       APIConfig       `toml:"api"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Chat      ChatConfig      `toml:"chat"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// UserConfig identifies the local user.
type UserConfig struct {
	ID          string `toml:"id"`
	DisplayName string `toml:"display_name"`
	Email       string `toml:"email"`
}

// WebhookConfig points at the conversational-AI webhook.
type WebhookConfig struct {
	URL string `toml:"url"`
}

// StoreConfig selects the profile backend: "sqlite", "rest", or "none"
// (demo mode, nothing persisted).
type StoreConfig struct {
	Backend    string `toml:"backend"`
	RESTURL    string `toml:"rest_url"`
	RESTAPIKey string `toml:"rest_api_key"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// RateLimitConfig controls the chat send limiter.
type RateLimitConfig struct {
	Limit         int `toml:"limit"`
	WindowSeconds int `toml:"window_seconds"`
}

// ChatConfig controls the stall-detection thresholds.
type ChatConfig struct {
	SlowAfterSeconds  int `toml:"slow_after_seconds"`
	StallAfterSeconds int `toml:"stall_after_seconds"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// envOverrides are the environment variables that overlay the file
// config, so secrets stay out of config.toml.
type envOverrides struct {
	WebhookURL string `envconfig:"WEBHOOK_URL"`
	RESTURL    string `envconfig:"REST_URL"`
	RESTAPIKey string `envconfig:"REST_API_KEY"`
	UserID     string `envconfig:"USER_ID"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := fitcoachHome()
	return Config{
		User: UserConfig{
			ID:          "local",
			DisplayName: "Guest",
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		RateLimit: RateLimitConfig{
			Limit:         10,
			WindowSeconds: 60,
		},
		Chat: ChatConfig{
			SlowAfterSeconds:  8,
			StallAfterSeconds: 20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "fitcoach.log"),
		},
	}
}

// LoadConfig reads config from $FITCOACH_HOME/config.toml, falling back
// to defaults, then applies FITCOACH_* environment overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(fitcoachHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("FITCOACH", &env); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	if env.WebhookURL != "" {
		cfg.Webhook.URL = env.WebhookURL
	}
	if env.RESTURL != "" {
		cfg.Store.RESTURL = env.RESTURL
	}
	if env.RESTAPIKey != "" {
		cfg.Store.RESTAPIKey = env.RESTAPIKey
	}
	if env.UserID != "" {
		cfg.User.ID = env.UserID
	}

	return cfg, nil
}

// SaveConfig writes the config to $FITCOACH_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(fitcoachHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// fitcoachHome returns the FitCoach data directory.
func fitcoachHome() string {
	if env := os.Getenv("FITCOACH_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fitcoach")
}

// Home is exported for use by other packages.
func Home() string {
	return fitcoachHome()
}
