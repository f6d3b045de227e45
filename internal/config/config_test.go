package config

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_KEY", validKey)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.SessionTTL != 168*time.Hour {
		t.Errorf("expected 168h TTL, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.BcryptCost != bcrypt.DefaultCost {
		t.Errorf("expected default bcrypt cost, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty DATABASE_URL, got %q", cfg.DatabaseURL)
	}
	if cfg.OIDC.Enabled() {
		t.Error("expected OIDC disabled by default")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format, got %q", cfg.LogFormat)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_KEY", validKey)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("OWNER_USERNAME", "root")
	t.Setenv("OWNER_PASSWORD", "hunter22")
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("expected :9999, got %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.OwnerUsername != "root" {
		t.Errorf("expected owner root, got %q", cfg.Auth.OwnerUsername)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected text, got %q", cfg.LogFormat)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing session key", map[string]string{"SESSION_KEY": ""}},
		{"short session key", map[string]string{"SESSION_KEY": "short"}},
		{"zero ttl", map[string]string{"SESSION_TTL_HOURS": "0"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "1"}},
		{"bcrypt cost too high", map[string]string{"BCRYPT_COST": "99"}},
		{"owner without password", map[string]string{"OWNER_USERNAME": "root"}},
		{"owner password too short", map[string]string{"OWNER_USERNAME": "root", "OWNER_PASSWORD": "abc"}},
		{"owner password too long", map[string]string{"OWNER_USERNAME": "root", "OWNER_PASSWORD": strings.Repeat("p", 73)}},
		{"oidc without redirect", map[string]string{"OIDC_ISSUER": "https://id.example.com", "OIDC_CLIENT_ID": "inv"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SESSION_KEY", validKey)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}
