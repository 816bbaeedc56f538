// Package config provides console configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// LoginRateLimit is the number of login attempts per minute and client IP.
	LoginRateLimit int
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a reverse proxy that overwrites those headers.
	TrustProxy bool
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type SessionConfig struct {
	CookieSecure bool
	IdleTTL      time.Duration
	SweepEvery   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with local
// development defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			ReadTimeout:    time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 15)) * time.Second,
			WriteTimeout:   time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			IdleTimeout:    time.Duration(getEnvInt("SERVER_IDLE_TIMEOUT", 60)) * time.Second,
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),
			TrustProxy:     getEnvBool("TRUST_PROXY", false),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(getEnv("CRM_API_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(getEnvInt("CRM_HTTP_TIMEOUT", 10)) * time.Second,
		},
		Session: SessionConfig{
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
			IdleTTL:      time.Duration(getEnvInt("WORKSPACE_IDLE_TTL", 30)) * time.Minute,
			SweepEvery:   time.Duration(getEnvInt("WORKSPACE_SWEEP_INTERVAL", 60)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool accepts "1", "true", "yes" as true.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma separated value.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
