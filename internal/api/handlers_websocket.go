// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/view"
	ws "github.com/tomtom215/guestmap/internal/websocket"
)

// ViewStream upgrades to a websocket that receives every snapshot of the
// session. A watched session is never reaped; the stream ends with a
// "closed" message when the session is torn down.
func (h *Handler) ViewStream(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.wsHub == nil {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: hub not initialized")
		rw.ServiceUnavailable("WebSocket service unavailable")
		return
	}

	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	detach := sess.Attach()
	client := ws.NewClient(h.wsHub, conn, sess.ID())
	client.OnClose(detach)

	select {
	case h.wsHub.Register <- client:
	case <-h.wsHub.Done():
		_ = conn.Close()
		detach()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		detach()
		return
	}
	client.Start()

	// Registered before this publish, so the client sees the current state
	// even if nothing changes afterwards. Clients keep the highest version.
	h.wsHub.Publish(sess.ID(), view.MessageTypeSnapshot, sess.Snapshot())
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts the page's own origin and configured CORS
// origins. Browsers always send Origin on websocket handshakes, so a missing
// header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}

	if h.config != nil {
		for _, allowed := range h.config.Security.CORSOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
	}

	logging.Ctx(r.Context()).Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
