// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package messagestore is the HTTP client for the remote message service.

The service exposes a single collection URL:

	GET  {base_url}   JSON array of message records
	POST {base_url}   create a message, returns the stored record

Records returned by List are validated one by one. A record that cannot be
decoded or fails validation is dropped, counted in the
guestmap_messages_rejected_total metric and logged; the rest of the list is
still returned. A body that is not a JSON array fails the whole fetch.

Every call runs under a per-call timeout and the "message-service" circuit
breaker. 4xx responses do not count as breaker failures since they indicate
a bad request rather than an unhealthy service.
*/
package messagestore
