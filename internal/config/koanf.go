// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/guestmap/config.yaml",
	"/etc/guestmap/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Config file
// values and environment variables override these.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: EnvDevelopment,
		},
		Messages: MessagesConfig{
			BaseURL:         "", // resolved per environment, see resolveDefaults
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		GeoIP: GeoIPConfig{
			Provider:        "ipapi",
			URL:             "",
			Timeout:         5 * time.Second,
			RateLimit:       40, // stays under ip-api.com's 45/min free tier
			CacheSize:       4096,
			CacheTTL:        6 * time.Hour,
			BreakerFailures: 5,
			BreakerTimeout:  60 * time.Second,
		},
		View: ViewConfig{
			DefaultLat:            51.505,
			DefaultLng:            -0.09,
			DefaultZoom:           2,
			LocatedZoom:           13,
			SentDelay:             3 * time.Second,
			SubmitTimeout:         15 * time.Second,
			SessionTTL:            30 * time.Minute,
			ReapInterval:          time.Minute,
			MaxSessions:           10000,
			AllowMultipleMessages: false,
		},
		Map: MapConfig{
			TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using layered sources:
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables (explicit mapping table)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.resolveDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// resolveDefaults fills values whose default depends on other settings.
func (c *Config) resolveDefaults() {
	if c.Messages.BaseURL == "" && !c.IsProduction() {
		c.Messages.BaseURL = DevelopmentMessagesURL
	}
	c.Messages.BaseURL = strings.TrimSpace(c.Messages.BaseURL)
	c.GeoIP.Provider = strings.ToLower(strings.TrimSpace(c.GeoIP.Provider))
}

// findConfigFile returns the first existing config file, or "" when none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are fields that accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"messages_api_url":          "messages.base_url",
	"messages_timeout":          "messages.timeout",
	"messages_breaker_failures": "messages.breaker_failures",
	"messages_breaker_timeout":  "messages.breaker_timeout",

	"geoip_provider":         "geoip.provider",
	"geoip_url":              "geoip.url",
	"geoip_timeout":          "geoip.timeout",
	"geoip_rate_limit":       "geoip.rate_limit",
	"geoip_cache_size":       "geoip.cache_size",
	"geoip_cache_ttl":        "geoip.cache_ttl",
	"geoip_breaker_failures": "geoip.breaker_failures",
	"geoip_breaker_timeout":  "geoip.breaker_timeout",

	"map_default_lat":         "view.default_lat",
	"map_default_lng":         "view.default_lng",
	"map_default_zoom":        "view.default_zoom",
	"map_located_zoom":        "view.located_zoom",
	"sent_delay":              "view.sent_delay",
	"submit_timeout":          "view.submit_timeout",
	"session_ttl":             "view.session_ttl",
	"session_reap_interval":   "view.reap_interval",
	"max_sessions":            "view.max_sessions",
	"allow_multiple_messages": "view.allow_multiple_messages",

	"map_tile_url":    "map.tile_url",
	"map_attribution": "map.attribution",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path, or "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
