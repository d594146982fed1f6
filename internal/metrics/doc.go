// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package metrics registers GuestMap's Prometheus collectors.

Collectors are package-level promauto variables registered with the default
registry and exposed by the API router at /metrics.

Families:

  - api_*: request counts, latency, in-flight requests, rate limit rejections
  - guestmap_view_sessions_*: open, opened and closed map views
  - guestmap_location_resolutions_total, guestmap_geoip_lookups_total
  - guestmap_submissions_total
  - guestmap_message_fetches_total, guestmap_messages_rejected_total,
    guestmap_message_group_size
  - guestmap_external_call_duration_seconds
  - websocket_*: live snapshot stream connections
  - circuit_breaker_*: state of the breakers around external services
*/
package metrics
