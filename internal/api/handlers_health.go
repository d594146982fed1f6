// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/guestmap/internal/logging"
)

// readinessTimeout bounds all readiness checks together.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only when every readiness check passes, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	ready := true
	checks := make(map[string]string, len(h.checks)+1)
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			ready = false
			checks[c.Name] = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("Readiness check failed")
			continue
		}
		checks[c.Name] = "ok"
	}

	sessions := 0
	if h.views != nil {
		sessions = h.views.Len()
	}

	data := map[string]interface{}{
		"ready":         ready,
		"checks":        checks,
		"open_sessions": sessions,
	}

	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", data)
		return
	}
	rw.Success(data)
}
