package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every configurable surface of the service.
type Config struct {
	Server ServerConfig
	Market MarketConfig
	Voice  VoiceConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	market, err := loadMarketConfig()
	if err != nil {
		return nil, err
	}

	voice, err := loadVoiceConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Market: market, Voice: voice}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// MarketConfig describes the upstream market-data provider.
type MarketConfig struct {
	BaseURL string
	Timeout time.Duration
}

func loadMarketConfig() (MarketConfig, error) {
	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("MARKET_TIMEOUT_SECONDS"); err != nil {
		return MarketConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return MarketConfig{}, fmt.Errorf("MARKET_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return MarketConfig{
		BaseURL: strings.TrimRight(getEnvOrDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"), "/"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// VoiceConfig toggles the browser-facing voice event channel.
type VoiceConfig struct {
	Enabled bool
}

func loadVoiceConfig() (VoiceConfig, error) {
	enabled, err := parseBoolEnv("VOICE_ENABLED", true)
	if err != nil {
		return VoiceConfig{}, err
	}
	return VoiceConfig{Enabled: enabled}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
