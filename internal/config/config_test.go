package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("max_retries=%d, want 5", cfg.MaxRetries)
	}
	if cfg.InitialRetryDelay != time.Second {
		t.Fatalf("initial_retry_delay=%s, want 1s", cfg.InitialRetryDelay)
	}
	if cfg.MaxRetryDelay != 30*time.Second {
		t.Fatalf("max_retry_delay=%s, want 30s", cfg.MaxRetryDelay)
	}
	if cfg.RetryJitter != 0.1 {
		t.Fatalf("retry_jitter=%v, want 0.1", cfg.RetryJitter)
	}
	if cfg.Log.Level != "info" || !cfg.Log.Console {
		t.Fatalf("log defaults=%+v, want info console logging", cfg.Log)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `realtime_url: wss://example.test/realtime
api_key: file-key
max_retries: 2
initial_retry_delay: 250ms
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.RealtimeURL != "wss://example.test/realtime" {
		t.Fatalf("realtime_url=%q", cfg.RealtimeURL)
	}
	if cfg.APIKey != "file-key" {
		t.Fatalf("api_key=%q, want file-key", cfg.APIKey)
	}
	if cfg.MaxRetries != 2 {
		t.Fatalf("max_retries=%d, want 2", cfg.MaxRetries)
	}
	if cfg.InitialRetryDelay != 250*time.Millisecond {
		t.Fatalf("initial_retry_delay=%s, want 250ms", cfg.InitialRetryDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level=%q, want debug", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxRetryDelay != 30*time.Second {
		t.Fatalf("max_retry_delay=%s, want 30s", cfg.MaxRetryDelay)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RT_MAX_RETRIES", "7")
	t.Setenv("REALTIME_URL", "wss://env.test/realtime")
	t.Setenv("REALTIME_API_KEY", "env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MaxRetries != 7 {
		t.Fatalf("max_retries=%d, want 7", cfg.MaxRetries)
	}
	if cfg.RealtimeURL != "wss://env.test/realtime" {
		t.Fatalf("realtime_url=%q, want env fallback", cfg.RealtimeURL)
	}
	if cfg.APIKey != "env-key" {
		t.Fatalf("api_key=%q, want env-key", cfg.APIKey)
	}
}

func TestClientConfigBearerAuth(t *testing.T) {
	cfg := Config{
		RealtimeURL: "wss://example.test/realtime",
		APIKey:      "secret",
		MaxRetries:  3,
	}
	cc := cfg.ClientConfig(nil)
	if cc.URL != cfg.RealtimeURL {
		t.Fatalf("url=%q, want %q", cc.URL, cfg.RealtimeURL)
	}
	if got := cc.Headers.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("Authorization=%q, want Bearer secret", got)
	}
	if cc.MaxRetries != 3 {
		t.Fatalf("max_retries=%d, want 3", cc.MaxRetries)
	}

	// No key, no header.
	cfg.APIKey = ""
	if got := cfg.ClientConfig(nil).Headers.Get("Authorization"); got != "" {
		t.Fatalf("Authorization=%q without api key, want empty", got)
	}
}
