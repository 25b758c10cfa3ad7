package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Addr() != "0.0.0.0:8080" {
		t.Errorf("default addr = %s", cfg.HTTP.Addr())
	}
	if cfg.Gemini.Enabled() {
		t.Error("gateway should be disabled without GEMINI_API_KEY")
	}
	if cfg.Gemini.Timeout != 10*time.Second {
		t.Errorf("default translate timeout = %v", cfg.Gemini.Timeout)
	}
	if cfg.Market.TickInterval != 30*time.Second {
		t.Errorf("default tick interval = %v", cfg.Market.TickInterval)
	}
	if cfg.DefaultLang != "marathi" {
		t.Errorf("default language = %s", cfg.DefaultLang)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("TICK_INTERVAL_SECONDS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.HTTP.Port)
	}
	if !cfg.Gemini.Enabled() {
		t.Error("gateway should be enabled")
	}
	if cfg.Market.TickInterval != 0 {
		t.Error("ticker should be disabled")
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-integer HTTP_PORT")
	}
}
