// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTP        HTTPConfig
	DatabaseURL string
	Auth        AuthConfig
	OIDC        OIDCConfig
	PublicDir   string
	LogFormat   string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	SessionKey    string
	SessionTTL    time.Duration
	BcryptCost    int
	OwnerUsername string
	OwnerPassword string
}

// OIDCConfig is optional; SSO is enabled only when Issuer and ClientID are set.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether single sign-on is configured.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
			WriteTimeout:    time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 20)) * time.Second,
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Auth: AuthConfig{
			SessionKey:    getEnv("SESSION_KEY", ""),
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
			BcryptCost:    getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
			OwnerUsername: getEnv("OWNER_USERNAME", ""),
			OwnerPassword: getEnv("OWNER_PASSWORD", ""),
		},
		OIDC: OIDCConfig{
			Issuer:       getEnv("OIDC_ISSUER", ""),
			ClientID:     getEnv("OIDC_CLIENT_ID", ""),
			ClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),
		},
		PublicDir: getEnv("PUBLIC_DIR", "public"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if cfg.HTTP.Addr == "" {
		return Config{}, fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if len(cfg.Auth.SessionKey) < 32 {
		return Config{}, fmt.Errorf("SESSION_KEY must be at least 32 bytes")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be > 0")
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if (cfg.Auth.OwnerUsername == "") != (cfg.Auth.OwnerPassword == "") {
		return Config{}, fmt.Errorf("OWNER_USERNAME and OWNER_PASSWORD must be set together")
	}
	if cfg.Auth.OwnerUsername != "" && (utf8.RuneCountInString(cfg.Auth.OwnerUsername) < 4 || utf8.RuneCountInString(cfg.Auth.OwnerPassword) < 6) {
		return Config{}, fmt.Errorf("owner username must be at least 4 and password at least 6 characters")
	}
	if len(cfg.Auth.OwnerPassword) > 72 {
		return Config{}, fmt.Errorf("OWNER_PASSWORD must be at most 72 bytes")
	}
	if cfg.OIDC.Enabled() && cfg.OIDC.RedirectURL == "" {
		return Config{}, fmt.Errorf("OIDC_REDIRECT_URL is required when OIDC is enabled")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
