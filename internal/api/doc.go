// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package api serves the map page and the JSON API that drives it.

The page is a thin client. Every visitor gets a view session on the server
(see internal/view); the page forwards input events to it and renders the
snapshots it receives over a websocket, or by polling when the websocket is
unavailable.

Routes:

	GET    /                                map page
	GET    /api/v1/config                   map defaults and tile provider
	POST   /api/v1/views                    open a view session
	GET    /api/v1/views/{id}               current snapshot
	DELETE /api/v1/views/{id}               close the session
	POST   /api/v1/views/{id}/location      device geolocation result
	PUT    /api/v1/views/{id}/draft         {field, value} input event
	POST   /api/v1/views/{id}/submit        send the draft
	POST   /api/v1/views/{id}/start-over    new cycle, when allowed
	POST   /api/v1/views/{id}/reload        re-fetch messages
	GET    /api/v1/views/{id}/ws            snapshot stream
	GET    /api/v1/health/live              liveness
	GET    /api/v1/health/ready             readiness
	GET    /metrics                         Prometheus

Responses:

All JSON endpoints answer with APIResponse:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}}

View errors map to statuses: unknown session 404, closed session 410,
submit gate failed 422 with per-field messages, action not allowed in the
current phase 409, session limit reached 503.

Middleware:

Request ID, real IP, panic recovery, Prometheus instrumentation and CORS run
on every route. API routes add per-IP rate limits (go-chi/httprate) and
security headers; the page gets a nonce-based Content-Security-Policy and
gzip.
*/
package api
