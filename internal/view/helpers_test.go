// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/models"
)

// fakeStore is a controllable message service.
type fakeStore struct {
	mu        sync.Mutex
	messages  []models.Message
	listErr   error
	createErr error
	created   []models.NewMessage
	listCalls int

	// listGate and createGate block the call until closed. When
	// ignoreCancel is set the call also ignores context cancellation.
	listGate     chan struct{}
	createGate   chan struct{}
	ignoreCancel bool
}

func (f *fakeStore) List(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.mu.Unlock()

	if err := f.wait(ctx, gate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeStore) Create(ctx context.Context, msg models.NewMessage) (models.Message, error) {
	f.mu.Lock()
	gate := f.createGate
	f.mu.Unlock()

	if err := f.wait(ctx, gate); err != nil {
		return models.Message{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Message{}, f.createErr
	}
	f.created = append(f.created, msg)
	return models.Message{
		ID:        models.MessageID("created-1"),
		Name:      msg.Name,
		Message:   msg.Message,
		Latitude:  msg.Latitude,
		Longitude: msg.Longitude,
	}, nil
}

func (f *fakeStore) wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	if f.ignoreCancel {
		<-gate
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeStore) setMessages(msgs []models.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = msgs
}

func (f *fakeStore) setCreateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

func (f *fakeStore) createdMessages() []models.NewMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.NewMessage(nil), f.created...)
}

func (f *fakeStore) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// fakeIPLocator counts fallback lookups.
type fakeIPLocator struct {
	mu    sync.Mutex
	calls int
	coord models.Coordinate
	err   error
}

func (f *fakeIPLocator) Locate(context.Context, string) (models.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.coord, f.err
}

func (f *fakeIPLocator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingPublisher keeps every published snapshot.
type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []State
	closed    []string
}

func (p *recordingPublisher) Publish(topic, messageType string, data interface{}) {
	if messageType != MessageTypeSnapshot {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, data.(State))
}

func (p *recordingPublisher) CloseTopic(topic string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, topic)
}

func (p *recordingPublisher) published() []State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]State(nil), p.snapshots...)
}

func (p *recordingPublisher) closedTopics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.closed...)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testViewConfig() config.ViewConfig {
	return config.ViewConfig{
		DefaultLat:    51.505,
		DefaultLng:    -0.09,
		DefaultZoom:   2,
		LocatedZoom:   13,
		SentDelay:     30 * time.Millisecond,
		SubmitTimeout: time.Second,
		SessionTTL:    time.Minute,
		ReapInterval:  time.Hour,
		MaxSessions:   10,
	}
}

type testEnv struct {
	mgr   *Manager
	store *fakeStore
	ip    *fakeIPLocator
	pub   *recordingPublisher
}

func newTestEnv(t *testing.T, cfg config.ViewConfig) *testEnv {
	t.Helper()
	env := &testEnv{
		store: &fakeStore{},
		ip:    &fakeIPLocator{coord: models.Coordinate{Lat: 52.52, Lng: 13.405}},
		pub:   &recordingPublisher{},
	}
	env.mgr = NewManager(cfg, env.store, location.NewResolver(env.ip), env.pub)
	t.Cleanup(func() { env.mgr.CloseAll("shutdown") })
	return env
}

// open mounts a session and waits for the initial fetch to settle.
func (e *testEnv) open(t *testing.T) *Session {
	t.Helper()
	s, err := e.mgr.Open(context.Background(), "203.0.113.9:4242")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

// located opens a session with a known device location and a valid draft.
func (e *testEnv) located(t *testing.T) *Session {
	t.Helper()
	s := e.open(t)
	if err := s.ReportLocation(location.PositionReport(models.Coordinate{Lat: 38.72, Lng: -9.14})); err != nil {
		t.Fatalf("ReportLocation() error = %v", err)
	}
	waitFor(t, "location known", func() bool { return s.Snapshot().LocationKnown })
	mustSetDraft(t, s, "Ana", "hello from Lisbon")
	return s
}

func mustSetDraft(t *testing.T, s *Session, name, message string) {
	t.Helper()
	if err := s.SetDraft(models.DraftFieldName, name); err != nil {
		t.Fatalf("SetDraft(name) error = %v", err)
	}
	if err := s.SetDraft(models.DraftFieldMessage, message); err != nil {
		t.Fatalf("SetDraft(message) error = %v", err)
	}
}

// waitFor polls cond until it holds or two seconds pass.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
