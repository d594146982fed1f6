// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/view"
	ws "github.com/tomtom215/guestmap/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

// fakeStore is an in-memory message service.
type fakeStore struct {
	mu        sync.Mutex
	messages  []models.Message
	createErr error
	created   []models.NewMessage
}

func (f *fakeStore) List(context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeStore) Create(_ context.Context, msg models.NewMessage) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Message{}, f.createErr
	}
	f.created = append(f.created, msg)
	return models.Message{
		ID:        models.MessageID(fmt.Sprintf("m%d", len(f.created))),
		Name:      msg.Name,
		Message:   msg.Message,
		Latitude:  msg.Latitude,
		Longitude: msg.Longitude,
	}, nil
}

func (f *fakeStore) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeIPLocator struct {
	coord models.Coordinate
	err   error
}

func (f fakeIPLocator) Locate(context.Context, string) (models.Coordinate, error) {
	return f.coord, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		View: config.ViewConfig{
			DefaultLat:    51.505,
			DefaultLng:    -0.09,
			DefaultZoom:   2,
			LocatedZoom:   13,
			SentDelay:     150 * time.Millisecond,
			SubmitTimeout: time.Second,
			SessionTTL:    time.Minute,
			ReapInterval:  time.Hour,
			MaxSessions:   5,
		},
		Map: config.MapConfig{
			TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: "&copy; OpenStreetMap contributors",
		},
		Security: config.SecurityConfig{
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
}

type testServer struct {
	*httptest.Server
	cfg   *config.Config
	store *fakeStore
	views *view.Manager
	hub   *ws.Hub
}

// newTestServer serves the full router over a running hub. mutate may
// adjust the configuration before anything is built.
func newTestServer(t *testing.T, mutate func(*config.Config), checks ...ReadinessCheck) *testServer {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go func() { _ = hub.RunWithContext(ctx) }()

	store := &fakeStore{}
	resolver := location.NewResolver(fakeIPLocator{coord: models.Coordinate{Lat: 52.52, Lng: 13.405}})
	views := view.NewManager(cfg.View, store, resolver, hub)

	handler := NewHandler(cfg, views, hub, checks...)
	srv := httptest.NewServer(NewRouter(handler).SetupChi())

	t.Cleanup(func() {
		srv.Close()
		views.CloseAll("shutdown")
		cancel()
	})

	return &testServer{Server: srv, cfg: cfg, store: store, views: views, hub: hub}
}

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v", method, path, err)
		}
	}
	return resp, env
}

func decodeState(t *testing.T, env envelope) view.State {
	t.Helper()
	var st view.State
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("decode state: %v (data %s)", err, env.Data)
	}
	return st
}

// openView mounts a session through the API.
func (ts *testServer) openView(t *testing.T) view.State {
	t.Helper()
	resp, env := ts.do(t, http.MethodPost, "/api/v1/views", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open view status = %d, want 201", resp.StatusCode)
	}
	return decodeState(t, env)
}

// readyView opens a session with a device location and a valid draft.
func (ts *testServer) readyView(t *testing.T) string {
	t.Helper()
	id := ts.openView(t).SessionID

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/views/"+id+"/location", map[string]float64{"lat": 38.72, "lng": -9.14})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("location status = %d, want 202", resp.StatusCode)
	}
	ts.waitState(t, id, "location known", func(st view.State) bool { return st.LocationKnown })

	for field, value := range map[string]string{"name": "Ana", "message": "hello from Lisbon"} {
		resp, _ := ts.do(t, http.MethodPut, "/api/v1/views/"+id+"/draft", DraftRequest{Field: field, Value: value})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("draft %s status = %d, want 200", field, resp.StatusCode)
		}
	}
	return id
}

// waitState polls the snapshot endpoint until cond holds.
func (ts *testServer) waitState(t *testing.T, id, what string, cond func(view.State) bool) view.State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, env := ts.do(t, http.MethodGet, "/api/v1/views/"+id, nil)
		if resp.StatusCode == http.StatusOK {
			if st := decodeState(t, env); cond(st) {
				return st
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
