// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package config loads and validates GuestMap configuration.

Configuration is layered with koanf, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, ./config.yaml, /etc/guestmap/config.yaml
 3. Environment variables, through an explicit mapping table

The result is resolved once at startup and injected into every component;
nothing reads the environment after Load returns.

# Message Service

messages.base_url (MESSAGES_API_URL) is used for both listing and creating
messages. In development it defaults to http://localhost:5000/api/v1/messages.
In production it has no default and Load fails when it is missing.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8080), HTTP_TIMEOUT
  - ENVIRONMENT: development, staging or production

Message service:
  - MESSAGES_API_URL, MESSAGES_TIMEOUT
  - MESSAGES_BREAKER_FAILURES, MESSAGES_BREAKER_TIMEOUT

IP geolocation fallback:
  - GEOIP_PROVIDER: ipapi (default) or ip-api
  - GEOIP_URL, GEOIP_TIMEOUT, GEOIP_RATE_LIMIT (per minute)
  - GEOIP_CACHE_SIZE, GEOIP_CACHE_TTL

Map view:
  - MAP_DEFAULT_LAT, MAP_DEFAULT_LNG, MAP_DEFAULT_ZOOM, MAP_LOCATED_ZOOM
  - SENT_DELAY (default 3s), SUBMIT_TIMEOUT
  - SESSION_TTL, SESSION_REAP_INTERVAL, MAX_SESSIONS
  - ALLOW_MULTIPLE_MESSAGES (default false)
  - MAP_TILE_URL, MAP_ATTRIBUTION

Security:
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
