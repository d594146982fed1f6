// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/grouping"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/messagestore"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/models"
)

var (
	// ErrDraftInvalid is returned by Submit when the draft fails the submit gate.
	ErrDraftInvalid = errors.New("draft is not valid for submission")

	// ErrSubmitNotAllowed is returned when the current phase forbids the action.
	ErrSubmitNotAllowed = errors.New("submit not allowed in the current phase")

	// ErrSessionClosed is returned by every operation on a closed session.
	ErrSessionClosed = errors.New("view session closed")

	// ErrSessionNotFound is returned by Manager lookups for unknown IDs.
	ErrSessionNotFound = errors.New("view session not found")

	// ErrTooManySessions is returned by Open when view.max_sessions is reached.
	ErrTooManySessions = errors.New("too many open view sessions")

	// ErrLocationReported is returned when the device result arrives twice.
	ErrLocationReported = errors.New("device location already reported")
)

// errStale marks a completion that no longer applies to the current state.
var errStale = errors.New("stale completion")

// MessageTypeSnapshot is the publish type of session snapshots.
const MessageTypeSnapshot = "snapshot"

// Publisher fans snapshots out to connected clients, one topic per session.
// websocket.Hub implements it. Publish must not block.
type Publisher interface {
	Publish(topic, messageType string, data interface{})
	CloseTopic(topic string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}
func (nopPublisher) CloseTopic(string)                   {}

// deps are shared by every session of a Manager.
type deps struct {
	cfg       config.ViewConfig
	store     messagestore.Store
	resolver  *location.Resolver
	publisher Publisher
	now       func() time.Time
}

// Session is one mounted map view.
type Session struct {
	id         string
	remoteAddr string
	deps       *deps
	onClose    func(*Session)

	// ctx is canceled by Close; every goroutine started for the session
	// runs under it and is tracked by wg.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu               sync.Mutex
	state            State
	closed           bool
	cycle            uint64
	fetchSeq         uint64
	fetchApplied     uint64
	locationReported bool
	lastSeen         time.Time
	attached         int
}

// newSession builds an open session. Only the correlation ID of reqCtx is
// carried over; the session outlives the request that opened it.
func newSession(reqCtx context.Context, id, remoteAddr string, d *deps) *Session {
	ctx := logging.ContextWithSessionID(context.Background(), id)
	if cid := logging.CorrelationIDFromContext(reqCtx); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}
	ctx, cancel := context.WithCancel(ctx)

	now := d.now()
	st := State{
		SessionID: id,
		Version:   1,
		Center:    models.Coordinate{Lat: d.cfg.DefaultLat, Lng: d.cfg.DefaultLng},
		Zoom:      d.cfg.DefaultZoom,
		Groups:    []models.GroupedMessage{},
		Phase:     models.Idle(),
		UpdatedAt: now,
	}
	st.derive()

	return &Session{
		id:         id,
		remoteAddr: remoteAddr,
		deps:       d,
		ctx:        ctx,
		cancel:     cancel,
		state:      st,
		lastSeen:   now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.deps.now()
	return s.state
}

// Attach marks the session as watched by a live connection. Watched sessions
// are never reaped. The returned func detaches.
func (s *Session) Attach() (detach func()) {
	s.mu.Lock()
	s.attached++
	s.lastSeen = s.deps.now()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.attached--
			s.lastSeen = s.deps.now()
			s.mu.Unlock()
		})
	}
}

// SetDraft applies one input event to the draft.
func (s *Session) SetDraft(field models.DraftField, value string) error {
	return s.mutate(func(st *State) error {
		draft, err := st.Draft.With(field, value)
		if err != nil {
			return err
		}
		st.Draft = draft
		return nil
	})
}

// ReportLocation accepts the device geolocation result and resolves the
// visitor's position in the background. It may be called once.
func (s *Session) ReportLocation(report location.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.locationReported {
		return ErrLocationReported
	}
	s.locationReported = true
	s.lastSeen = s.deps.now()

	s.goLocked(func(ctx context.Context) {
		s.resolveLocation(ctx, report)
	})
	return nil
}

// Reload re-fetches the message list in the background.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastSeen = s.deps.now()
	s.startFetchLocked()
	return nil
}

// Close cancels the session and waits for its goroutines. Safe to call more
// than once.
func (s *Session) Close() {
	s.close("client")
}

// close tears the session down and reports whether this call did it.
func (s *Session) close(reason string) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.deps.publisher.CloseTopic(s.id)

	metrics.ViewSessionsClosed.WithLabelValues(reason).Inc()
	metrics.ViewSessionsActive.Dec()
	logging.Ctx(s.ctx).Debug().Str("reason", reason).Msg("View session closed")

	if s.onClose != nil {
		s.onClose(s)
	}
	return true
}

// idle reports whether the session has been unused for longer than ttl.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached == 0 && now.Sub(s.lastSeen) > ttl
}

// update applies fn as one atomic mutation and publishes the result. An
// error from fn leaves the state untouched. Background completions use
// update directly so they do not count as visitor activity.
func (s *Session) update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	return s.applyLocked(fn)
}

// mutate is update on behalf of the visitor.
func (s *Session) mutate(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastSeen = s.deps.now()
	return s.applyLocked(fn)
}

// applyLocked commits fn. The caller holds s.mu.
func (s *Session) applyLocked(fn func(st *State) error) error {
	next := s.state
	if err := fn(&next); err != nil {
		return err
	}
	next.Version = s.state.Version + 1
	next.UpdatedAt = s.deps.now()
	next.derive()

	s.state = next
	s.deps.publisher.Publish(s.id, MessageTypeSnapshot, next)
	return nil
}

// goLocked starts fn under the session context. The caller holds s.mu and
// has checked that the session is open.
func (s *Session) goLocked(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// startFetchLocked starts a message list fetch. Only the newest fetch to
// complete is applied.
func (s *Session) startFetchLocked() {
	s.fetchSeq++
	seq := s.fetchSeq
	s.goLocked(func(ctx context.Context) {
		s.fetchMessages(ctx, seq)
	})
}

func (s *Session) fetchMessages(ctx context.Context, seq uint64) {
	messages, err := s.deps.store.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Message list fetch failed")
		}
		return
	}

	groups := grouping.Group(messages)
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = g.Size()
	}
	metrics.RecordGroupSizes(sizes)

	err = s.update(func(st *State) error {
		if seq < s.fetchApplied {
			return errStale
		}
		s.fetchApplied = seq
		st.Groups = groups
		st.MessagesLoaded = true
		return nil
	})
	if err == nil {
		logging.Ctx(ctx).Debug().Int("messages", len(messages)).Int("markers", len(groups)).Msg("Message list loaded")
	}
}

func (s *Session) resolveLocation(ctx context.Context, report location.Report) {
	res, err := s.deps.resolver.Resolve(ctx, report, s.remoteAddr)
	if err != nil {
		return
	}

	_ = s.update(func(st *State) error {
		st.Center = res.Coordinate
		st.Zoom = s.deps.cfg.LocatedZoom
		st.LocationKnown = true
		st.LocationSource = res.Source
		return nil
	})
}
