package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite backend by default, got %q", cfg.Store.Backend)
	}
	if cfg.RateLimit.Limit != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("expected 10 per 60s, got %d per %ds", cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds)
	}
	if cfg.Chat.SlowAfterSeconds != 8 || cfg.Chat.StallAfterSeconds != 20 {
		t.Errorf("expected 8s/20s stall thresholds, got %d/%d",
			cfg.Chat.SlowAfterSeconds, cfg.Chat.StallAfterSeconds)
	}
	if cfg.API.Port == 0 {
		t.Error("expected a default API port")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("FITCOACH_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected defaults without a config file, got %+v", cfg.Store)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FITCOACH_HOME", home)

	content := `
[user]
id = "alex"
display_name = "Alex"

[webhook]
url = "https://hooks.example.com/chat"

[store]
backend = "rest"
rest_url = "https://db.example.com"

[api]
port = 9000

[telemetry]
prometheus = true
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.User.ID != "alex" || cfg.Webhook.URL != "https://hooks.example.com/chat" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Store.Backend != "rest" || cfg.Store.RESTURL != "https://db.example.com" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.API.Port)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("expected prometheus enabled")
	}
	// Unset sections keep their defaults.
	if cfg.RateLimit.Limit != 10 {
		t.Errorf("expected default rate limit, got %d", cfg.RateLimit.Limit)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FITCOACH_HOME", t.TempDir())
	t.Setenv("FITCOACH_WEBHOOK_URL", "https://hooks.example.com/override")
	t.Setenv("FITCOACH_REST_API_KEY", "secret")
	t.Setenv("FITCOACH_USER_ID", "env-user")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Webhook.URL != "https://hooks.example.com/override" {
		t.Errorf("expected env webhook url, got %q", cfg.Webhook.URL)
	}
	if cfg.Store.RESTAPIKey != "secret" {
		t.Errorf("expected env api key, got %q", cfg.Store.RESTAPIKey)
	}
	if cfg.User.ID != "env-user" {
		t.Errorf("expected env user id, got %q", cfg.User.ID)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("FITCOACH_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.User.ID = "saved-user"
	cfg.Webhook.URL = "https://hooks.example.com/x"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.User.ID != "saved-user" || got.Webhook.URL != "https://hooks.example.com/x" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
