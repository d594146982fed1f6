// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package main is the entry point for the GuestMap server.

GuestMap is a guestbook pinned to a world map: visitors are located through
the browser's geolocation (or, failing that, their IP address), see every
existing message grouped by rounded position, and leave one of their own.

# Application Architecture

	RootSupervisor ("guestmap")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (view snapshots)
	│   └── Session Reaper (idle view sessions)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Initialization order:

 1. Configuration: koanf with defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Outbound clients: message store and geoip locator, each behind a circuit breaker
 4. View manager and WebSocket hub
 5. Supervisor tree and HTTP server

# Configuration

Priority: environment variables > config file (CONFIG_PATH) > defaults.

	HTTP_PORT=8080
	ENVIRONMENT=development        # development, staging, production
	MESSAGES_API_URL=http://localhost:5000/api/v1/messages
	GEOIP_PROVIDER=ipapi           # ipapi or ip-api
	SENT_DELAY=3s
	ALLOW_MULTIPLE_MESSAGES=false
	MAP_TILE_URL=https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png
	LOG_LEVEL=info
	LOG_FORMAT=json

In production MESSAGES_API_URL is required; in development it defaults to
the local message service.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for up
to 10s, the hub closes attached WebSocket clients, and the reaper closes
every open view session. The process exits non-zero if a service fails to
stop in time.
*/
package main
