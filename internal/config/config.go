// Package config loads service configuration. Values come from the
// environment, optionally overlaid on a YAML file named by CONFIG_PATH.
package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs to start.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`

	AuthIssuer        string `yaml:"auth_issuer"`
	AuthAudience      string `yaml:"auth_audience"`
	AuthPublicKeyPath string `yaml:"auth_public_key_path"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	RateLimitPerSecond int `yaml:"rate_limit_per_second"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// Load builds the configuration. A YAML file named by CONFIG_PATH is read
// first when present; environment variables override it.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         ":8080",
		LogLevel:           "info",
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerSecond: 20,
		RateLimitBurst:     40,
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.AuthIssuer = v
	}
	if v := os.Getenv("AUTH_AUDIENCE"); v != "" {
		cfg.AuthAudience = v
	}
	if v := os.Getenv("AUTH_PUBLIC_KEY_PATH"); v != "" {
		cfg.AuthPublicKeyPath = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_SECOND"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RATE_LIMIT_PER_SECOND: %w", err)
		}
		cfg.RateLimitPerSecond = n
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}

	return cfg, nil
}

// AuthPublicKey reads and parses the RSA public key used to verify bearer
// tokens. It returns nil when no key path is configured, which disables
// authentication.
func (c Config) AuthPublicKey() (*rsa.PublicKey, error) {
	if c.AuthPublicKeyPath == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(c.AuthPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read auth public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse auth public key: %w", err)
	}
	return key, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
