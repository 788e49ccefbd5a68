package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/croftbar/member-portal/internal/common/constants"
)

var (
	ErrMissingRequiredEnv   = errors.New("missing required environment variable")
	ErrInvalidSessionSecret = errors.New("SESSION_SECRET must be at least 32 bytes")
)

type WebConfig struct {
	Host           string
	Port           string
	DatabaseURL    string
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	SecureCookies  bool
}

func (c WebConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadWebConfig reads settings from the environment. A .env file in the
// working directory is loaded first when present.
func LoadWebConfig() (WebConfig, error) {
	_ = godotenv.Load()

	sessionSecret, err := mustEnv("SESSION_SECRET")
	if err != nil {
		return WebConfig{}, err
	}

	if err := validateSessionSecret(sessionSecret); err != nil {
		return WebConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return WebConfig{}, err
	}

	return WebConfig{
		Host:           getEnv("WEB_HOST", "0.0.0.0"),
		Port:           getEnv("WEB_PORT", "5003"),
		DatabaseURL:    databaseURL,
		SessionSecret:  sessionSecret,
		SessionTTL:     getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		RequestTimeout: getDurationEnv("WEB_REQUEST_TIMEOUT", 5*time.Second),
		SecureCookies:  getBoolEnv("WEB_SECURE_COOKIES", false),
	}, nil
}

func validateSessionSecret(secret string) error {
	if len(secret) < constants.SessionSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidSessionSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes":
		return true
	case "0", "false", "FALSE", "False", "no":
		return false
	default:
		return fallback
	}
}
