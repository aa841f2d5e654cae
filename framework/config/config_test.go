package config_test

import (
	"testing"

	"github.com/nk-arch/go-beans/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "") // empty reads as unset, restored after test
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "APP_NAME", "APP_ENV", "APP_PORT", "APP_URL", "LOG_LEVEL", "LOG_FORMAT")

	cfg := config.Load("testdata/does-not-exist.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "GoBeans"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"App.URL", cfg.App.URL, "http://localhost"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("LOG_FORMAT", "json")

	cfg := config.Load("testdata/does-not-exist.env")

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if cfg.App.Env != "production" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "production")
	}
	if cfg.App.Port != "9000" {
		t.Errorf("App.Port: got %q want %q", cfg.App.Port, "9000")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_DebugBool(t *testing.T) {
	t.Setenv("APP_DEBUG", "false")
	cfg := config.Load("testdata/does-not-exist.env")
	if cfg.App.Debug {
		t.Error("App.Debug: got true, want false")
	}

	t.Setenv("APP_DEBUG", "not-a-bool")
	cfg = config.Load("testdata/does-not-exist.env")
	if !cfg.App.Debug {
		t.Error("App.Debug: invalid value should fall back to default true")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "custom-value")
	if got := config.Get("CUSTOM_KEY", "fallback"); got != "custom-value" {
		t.Errorf("got %q want %q", got, "custom-value")
	}
	if got := config.Get("MISSING_KEY_XYZ", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("WORKERS", "12")
	if got := config.GetInt("WORKERS", 4); got != 12 {
		t.Errorf("got %d want 12", got)
	}
	t.Setenv("WORKERS", "not-a-number")
	if got := config.GetInt("WORKERS", 4); got != 4 {
		t.Errorf("invalid value: got %d want fallback 4", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("FEATURE_ON", "true")
	if !config.GetBool("FEATURE_ON", false) {
		t.Error("got false want true")
	}
	if config.GetBool("MISSING_FLAG_XYZ", false) {
		t.Error("missing key: got true want fallback false")
	}
}
