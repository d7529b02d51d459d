// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for configuration problems.
var (
	ErrMissingHost     = errors.New("UNIFI_HOST is required for a local controller")
	ErrMissingAPIKey   = errors.New("UNIFI_API_KEY is required")
	ErrInvalidAPIType  = errors.New("UNIFI_API_TYPE must be \"local\" or \"cloud\"")
	ErrInvalidLogLevel = errors.New("invalid UNIFI_LOG_LEVEL")
)

var validLogLevels = map[string]bool{
	"disabled": true,
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
}

// Config holds the server configuration.
type Config struct {
	Host      string
	APIKey    string
	APIType   string // "local" or "cloud"
	Site      string
	VerifySSL bool
	Timeout   time.Duration
	LogLevel  string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Host:      os.Getenv("UNIFI_HOST"),
		APIKey:    os.Getenv("UNIFI_API_KEY"),
		APIType:   strings.ToLower(os.Getenv("UNIFI_API_TYPE")),
		Site:      os.Getenv("UNIFI_SITE"),
		VerifySSL: true,
		Timeout:   30 * time.Second,
		LogLevel:  strings.ToLower(os.Getenv("UNIFI_LOG_LEVEL")),
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.APIType {
	case "":
		cfg.APIType = "local"
	case "local", "cloud":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAPIType, cfg.APIType)
	}

	if cfg.APIType == "local" && cfg.Host == "" {
		return nil, ErrMissingHost
	}

	if cfg.Site == "" {
		cfg.Site = "default"
	}

	if v := os.Getenv("UNIFI_VERIFY_SSL"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("UNIFI_VERIFY_SSL must be a boolean, got %q", v)
		}
		cfg.VerifySSL = verify
	}

	if v := os.Getenv("UNIFI_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("UNIFI_TIMEOUT must be a positive number of seconds, got %q", v)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	if !validLogLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return cfg, nil
}
