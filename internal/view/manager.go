// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package view

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/messagestore"
	"github.com/tomtom215/guestmap/internal/metrics"
)

// Manager owns the open view sessions.
type Manager struct {
	deps *deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager. A nil resolver leaves every visitor
// unlocated; a nil publisher discards snapshots.
func NewManager(cfg config.ViewConfig, store messagestore.Store, resolver *location.Resolver, publisher Publisher) *Manager {
	if cfg.LocatedZoom == 0 {
		cfg.LocatedZoom = 13
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 15 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = time.Minute
	}
	if resolver == nil {
		resolver = location.NewResolver(nil)
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}

	return &Manager{
		deps: &deps{
			cfg:       cfg,
			store:     store,
			resolver:  resolver,
			publisher: publisher,
			now:       time.Now,
		},
		sessions: make(map[string]*Session),
	}
}

// Open mounts a new view for the visitor at remoteAddr and starts the
// message list fetch. Location resolution starts when the device result is
// reported; the two run without coordination.
func (m *Manager) Open(ctx context.Context, remoteAddr string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit := m.deps.cfg.MaxSessions; limit > 0 && len(m.sessions) >= limit {
		return nil, ErrTooManySessions
	}

	s := newSession(ctx, uuid.NewString(), remoteAddr, m.deps)
	s.onClose = m.forget
	m.sessions[s.id] = s

	s.mu.Lock()
	s.startFetchLocked()
	s.mu.Unlock()

	metrics.ViewSessionsOpened.Inc()
	metrics.ViewSessionsActive.Inc()
	logging.Ctx(s.ctx).Debug().Str("remote_addr", remoteAddr).Int("open_sessions", len(m.sessions)).Msg("View session opened")
	return s, nil
}

// Get returns the open session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close tears down the session with id.
func (m *Manager) Close(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.close("client")
	return nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap closes sessions idle longer than view.session_ttl and returns how
// many it closed.
func (m *Manager) Reap() int {
	now := m.deps.now()
	ttl := m.deps.cfg.SessionTTL

	var expired []*Session
	for _, s := range m.snapshotSessions() {
		if s.idle(now, ttl) {
			expired = append(expired, s)
		}
	}

	closed := 0
	for _, s := range expired {
		if s.close("expired") {
			closed++
		}
	}
	if closed > 0 {
		logging.Info().Int("reaped", closed).Int("open_sessions", m.Len()).Msg("Reaped idle view sessions")
	}
	return closed
}

// CloseAll closes every open session.
func (m *Manager) CloseAll(reason string) int {
	closed := 0
	for _, s := range m.snapshotSessions() {
		if s.close(reason) {
			closed++
		}
	}
	return closed
}

// RunReaper reaps idle sessions every view.reap_interval until ctx is
// canceled, then closes all remaining sessions. It matches suture.Service.
func (m *Manager) RunReaper(ctx context.Context) error {
	ticker := time.NewTicker(m.deps.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			closed := m.CloseAll("shutdown")
			logging.Info().
				Str("component", "session-reaper").
				Int("sessions_closed", closed).
				Msg("session reaper stopped")
			return ctx.Err()
		case <-ticker.C:
			m.Reap()
		}
	}
}

// snapshotSessions returns the open sessions ordered by ID.
func (m *Manager) snapshotSessions() []*Session {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].id < sessions[j].id
	})
	return sessions
}

func (m *Manager) forget(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
}
