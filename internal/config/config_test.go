package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COVERAGE_PERCENTAGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.Coverage.Equal(decimal.RequireFromString("0.8")) {
		t.Errorf("Coverage = %s, want 0.8", cfg.Coverage)
	}
	if cfg.LockTTL != 10*time.Second {
		t.Errorf("LockTTL = %s, want 10s", cfg.LockTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("COVERAGE_PERCENTAGE", "0.65")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("LOCK_WAIT", "500ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if !cfg.Coverage.Equal(decimal.RequireFromString("0.65")) {
		t.Errorf("Coverage = %s, want 0.65", cfg.Coverage)
	}
	if !cfg.OTelEnabled {
		t.Error("expected OTelEnabled")
	}
	if cfg.LockWait != 500*time.Millisecond {
		t.Errorf("LockWait = %s, want 500ms", cfg.LockWait)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestRequireSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.RequireSecret(); err == nil {
		t.Error("expected error without JWT_SECRET")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"coverage above one", map[string]string{"JWT_SECRET": "s", "COVERAGE_PERCENTAGE": "1.5"}},
		{"zero coverage", map[string]string{"JWT_SECRET": "s", "COVERAGE_PERCENTAGE": "0"}},
		{"unparseable coverage", map[string]string{"JWT_SECRET": "s", "COVERAGE_PERCENTAGE": "eighty"}},
		{"unparseable port", map[string]string{"PORT": "abc"}},
		{"bad duration", map[string]string{"LOCK_TTL": "soon"}},
		{"bad bool", map[string]string{"OTEL_ENABLED": "maybe"}},
		{"bad ratio", map[string]string{"OTEL_SAMPLER_RATIO": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadReportsEveryBadValue(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("LOCK_TTL", "soon")
	t.Setenv("OTEL_ENABLED", "maybe")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"PORT", "LOCK_TTL", "OTEL_ENABLED"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}
