// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	// ClientURL is where OAuth callbacks redirect the browser back to.
	ClientURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	CORSOrigins []string

	OTelEnabled  bool
	OTelExporter string
	OTelEndpoint string
}

// GoogleEnabled reports whether Google OAuth is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// HTTPAddress returns the host:port pair the HTTP server binds to.
func (c *Config) HTTPAddress() string {
	return ":" + c.Port
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               envOr("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		ClientURL:          envOr("CLIENT_URL", "http://localhost:5173"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		OTelExporter:       envOr("OTEL_EXPORTER", "stdout"),
		OTelEndpoint:       envOr("OTEL_ENDPOINT", "localhost:4317"),
	}

	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"

	cfg.JWTTTL = 7 * 24 * time.Hour
	if hoursStr := os.Getenv("JWT_TTL_HOURS"); hoursStr != "" {
		if h, err := strconv.Atoi(hoursStr); err == nil && h > 0 {
			cfg.JWTTTL = time.Duration(h) * time.Hour
		}
	}

	originsStr := envOr("CORS_ALLOWED_ORIGINS", "*")
	for origin := range strings.SplitSeq(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if c.GoogleClientID != "" && c.GoogleCallbackURL == "" {
		errs = append(errs, "GOOGLE_CALLBACK_URL is required when GOOGLE_CLIENT_ID is set")
	}

	switch c.OTelExporter {
	case "stdout", "otlp-grpc", "otlp-http":
	default:
		errs = append(errs, "OTEL_EXPORTER must be one of stdout, otlp-grpc, otlp-http")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
