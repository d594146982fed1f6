// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/guestmap/internal/api"
	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/geoip"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/messagestore"
	"github.com/tomtom215/guestmap/internal/supervisor"
	"github.com/tomtom215/guestmap/internal/supervisor/services"
	"github.com/tomtom215/guestmap/internal/view"
	ws "github.com/tomtom215/guestmap/internal/websocket"
)

// app holds the long-lived components built from configuration.
type app struct {
	cfg     *config.Config
	hub     *ws.Hub
	views   *view.Manager
	store   *messagestore.Client
	locator *geoip.Locator
	server  *http.Server
}

// newOutboundClient returns the HTTP client shared by the message store and
// the geoip provider. Per-call deadlines are applied by each caller.
func newOutboundClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 90 * time.Second
	return &http.Client{Transport: transport}
}

func newApp(cfg *config.Config, client *http.Client) (*app, error) {
	if client == nil {
		client = newOutboundClient()
	}

	locator, err := geoip.NewLocator(cfg.GeoIP, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create geoip locator: %w", err)
	}

	store := messagestore.NewClient(cfg.Messages, client)
	hub := ws.NewHub()
	views := view.NewManager(cfg.View, store, location.NewResolver(locator), hub)

	handler := api.NewHandler(cfg, views, hub, messageStoreCheck(store))
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	return &app{
		cfg:     cfg,
		hub:     hub,
		views:   views,
		store:   store,
		locator: locator,
		server:  server,
	}, nil
}

// messageStoreCheck reports not ready while the message service breaker is open.
func messageStoreCheck(store *messagestore.Client) api.ReadinessCheck {
	return api.ReadinessCheck{
		Name: "message-store",
		Check: func(_ context.Context) error {
			if store.BaseURL() == "" {
				return messagestore.ErrNotConfigured
			}
			if state := store.BreakerState(); state == "open" {
				return fmt.Errorf("message service circuit breaker is %s", state)
			}
			return nil
		},
	}
}

// supervisorTree places the hub and reaper in the messaging layer and the
// HTTP server in the API layer.
func (a *app) supervisorTree(logger *slog.Logger) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddMessagingService(services.NewSessionReaperService(a.views))
	tree.AddAPIService(services.NewHTTPServerService(a.server, 10*time.Second))
	return tree, nil
}
