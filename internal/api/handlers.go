// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"context"
	"time"

	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/view"
	ws "github.com/tomtom215/guestmap/internal/websocket"
)

// ReadinessCheck is one dependency consulted by the readiness probe.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_views.go: view session endpoints
//   - handlers_websocket.go: snapshot stream
//   - handlers_health.go: liveness and readiness
//   - handlers_page.go: map page and page config
type Handler struct {
	config    *config.Config
	views     *view.Manager
	wsHub     *ws.Hub
	checks    []ReadinessCheck
	startTime time.Time
}

// NewHandler creates a new API handler. hub may be nil, in which case the
// websocket endpoint answers 503 and clients fall back to polling.
func NewHandler(cfg *config.Config, views *view.Manager, hub *ws.Hub, checks ...ReadinessCheck) *Handler {
	return &Handler{
		config:    cfg,
		views:     views,
		wsHub:     hub,
		checks:    checks,
		startTime: time.Now(),
	}
}
