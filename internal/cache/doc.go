// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

// Package cache provides a generic LRU cache with TTL, used to remember IP
// geolocation results so repeat visitors do not spend provider quota.
package cache
