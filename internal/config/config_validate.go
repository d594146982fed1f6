// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package config

import (
	"fmt"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validEnvironments = map[string]bool{
	EnvDevelopment: true,
	EnvStaging:     true,
	EnvProduction:  true,
}

var validGeoIPProviders = map[string]bool{
	"ipapi":  true,
	"ip-api": true,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMessages(); err != nil {
		return err
	}
	if err := c.validateGeoIP(); err != nil {
		return err
	}
	if err := c.validateView(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) validateMessages() error {
	if c.Messages.BaseURL == "" {
		return fmt.Errorf("MESSAGES_API_URL is required when ENVIRONMENT=%s", c.Server.Environment)
	}
	if err := validateEndpointURL(c.Messages.BaseURL, "MESSAGES_API_URL"); err != nil {
		return fmt.Errorf("MESSAGES_API_URL is invalid: %w", err)
	}
	if c.IsProduction() && strings.HasPrefix(c.Messages.BaseURL, "http://localhost") {
		return fmt.Errorf("MESSAGES_API_URL must not point at localhost in production")
	}
	if c.Messages.Timeout <= 0 {
		return fmt.Errorf("MESSAGES_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateGeoIP() error {
	if !validGeoIPProviders[c.GeoIP.Provider] {
		return fmt.Errorf("GEOIP_PROVIDER must be one of: ipapi, ip-api")
	}
	if c.GeoIP.URL != "" {
		if err := validateEndpointURL(c.GeoIP.URL, "GEOIP_URL"); err != nil {
			return fmt.Errorf("GEOIP_URL is invalid: %w", err)
		}
	}
	if c.GeoIP.Timeout <= 0 {
		return fmt.Errorf("GEOIP_TIMEOUT must be positive")
	}
	if c.GeoIP.RateLimit < 1 {
		return fmt.Errorf("GEOIP_RATE_LIMIT must be at least 1 request per minute")
	}
	if c.GeoIP.CacheSize < 0 {
		return fmt.Errorf("GEOIP_CACHE_SIZE must not be negative")
	}
	return nil
}

func (c *Config) validateView() error {
	v := c.View
	if v.DefaultLat < -90 || v.DefaultLat > 90 {
		return fmt.Errorf("MAP_DEFAULT_LAT must be between -90 and 90")
	}
	if v.DefaultLng < -180 || v.DefaultLng > 180 {
		return fmt.Errorf("MAP_DEFAULT_LNG must be between -180 and 180")
	}
	if v.DefaultZoom < 0 || v.DefaultZoom > 19 {
		return fmt.Errorf("MAP_DEFAULT_ZOOM must be between 0 and 19")
	}
	if v.LocatedZoom < 0 || v.LocatedZoom > 19 {
		return fmt.Errorf("MAP_LOCATED_ZOOM must be between 0 and 19")
	}
	if v.SentDelay < 0 {
		return fmt.Errorf("SENT_DELAY must not be negative")
	}
	if v.SubmitTimeout <= 0 {
		return fmt.Errorf("SUBMIT_TIMEOUT must be positive")
	}
	if v.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if v.ReapInterval <= 0 {
		return fmt.Errorf("SESSION_REAP_INTERVAL must be positive")
	}
	if v.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1")
	}
	return nil
}

func (c *Config) validateMap() error {
	if c.Map.TileURL == "" {
		return fmt.Errorf("MAP_TILE_URL is required")
	}
	for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(c.Map.TileURL, placeholder) {
			return fmt.Errorf("MAP_TILE_URL must contain %s", placeholder)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must list explicit origins in production, wildcard is not allowed")
			}
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
	}
	if c.Security.RateLimitWindow < time.Second || c.Security.RateLimitWindow > time.Hour {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
