// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package logging provides the structured logger used across GuestMap.

It wraps a single global zerolog logger. Call sites use the package-level
helpers:

	logging.Info().Str("provider", "ipapi").Msg("IP geolocation configured")
	logging.Err(err).Str("base_url", url).Msg("Failed to fetch messages")

Request, correlation and view session IDs travel in context.Context and are
attached automatically by Ctx:

	ctx = logging.ContextWithSessionID(ctx, sessionID)
	logging.Ctx(ctx).Debug().Msg("Device geolocation denied, falling back")

SlogHandler adapts the logger to log/slog for the supervisor's event hook.

Output format is json (default) or console, selected through Config.
*/
package logging
