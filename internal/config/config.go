// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package config

import "time"

// Environment names accepted by server.environment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// DevelopmentMessagesURL is the message service used when running locally
// and no messages.base_url was configured.
const DevelopmentMessagesURL = "http://localhost:5000/api/v1/messages"

// Config holds the complete application configuration. It is resolved once at
// startup by Load and passed explicitly to every component.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Messages MessagesConfig `koanf:"messages"`
	GeoIP    GeoIPConfig    `koanf:"geoip"`
	View     ViewConfig     `koanf:"view"`
	Map      MapConfig      `koanf:"map"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// MessagesConfig points at the remote message service.
type MessagesConfig struct {
	// BaseURL is used for both listing (GET) and creating (POST) messages.
	// Empty in development resolves to DevelopmentMessagesURL; production
	// requires it to be set.
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit breaker around the message service.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// GeoIPConfig configures the IP geolocation fallback.
type GeoIPConfig struct {
	// Provider selects the lookup service: ipapi (ipapi.co) or ip-api (ip-api.com).
	Provider string `koanf:"provider"`

	// URL overrides the provider's base URL. Mostly useful for tests and
	// self-hosted mirrors.
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the maximum number of outbound lookups per minute.
	RateLimit int `koanf:"rate_limit"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// ViewConfig holds the map view defaults and submission behaviour.
type ViewConfig struct {
	DefaultLat  float64 `koanf:"default_lat"`
	DefaultLng  float64 `koanf:"default_lng"`
	DefaultZoom int     `koanf:"default_zoom"`
	LocatedZoom int     `koanf:"located_zoom"`

	// SentDelay is the pause between a successful create and the Sent phase.
	SentDelay time.Duration `koanf:"sent_delay"`

	// SubmitTimeout bounds a create request so a view never stays in Sending.
	SubmitTimeout time.Duration `koanf:"submit_timeout"`

	SessionTTL   time.Duration `koanf:"session_ttl"`
	ReapInterval time.Duration `koanf:"reap_interval"`
	MaxSessions  int           `koanf:"max_sessions"`

	// AllowMultipleMessages lets a visitor start a new message after Sent.
	AllowMultipleMessages bool `koanf:"allow_multiple_messages"`
}

// MapConfig describes the tile provider rendered by the page.
type MapConfig struct {
	TileURL     string `koanf:"tile_url"`
	Attribution string `koanf:"attribution"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load resolves configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}
