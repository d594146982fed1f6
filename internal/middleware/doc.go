// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation,
    labelled by chi route pattern
  - Compression: pooled gzip writers for the map page

All middleware uses the standard func(http.Handler) http.Handler shape so it
can be passed straight to chi's Use and With.

See Also:

  - internal/api: router and handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
