// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package geoip resolves a visitor's approximate coordinate from their IP
address. It is the fallback used when the browser's device geolocation
fails or is denied.

Two providers are supported, selected by geoip.provider:

  - ipapi: https://ipapi.co/{ip}/json (latitude, longitude)
  - ip-api: http://ip-api.com/json/{ip} (lat, lon, status)

An empty IP asks the provider to locate the caller ("self" endpoint).

Locator wraps the provider with the plumbing every lookup goes through, in
order:

 1. address normalization (ports and brackets stripped)
 2. private and loopback addresses rejected with ErrPrivateAddress
 3. LRU cache with TTL, keyed by IP
 4. singleflight, so concurrent lookups for one IP share a request
 5. x/time/rate limiter sized to the provider's free tier
 6. gobreaker circuit breaker

Every failure is wrapped in ErrLocationLookup.
*/
package geoip
