// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

// Command guestmapctl inspects a GuestMap deployment: the grouped message
// list, IP geolocation through the configured provider, and the resolved
// server configuration. It reads the same configuration sources as the
// server (defaults, CONFIG_PATH file, environment).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/guestmap/internal/cli"
	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/geoip"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/messagestore"
)

var version = "dev"

func main() {
	logging.Init(logging.Config{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	})

	deps := cli.Dependencies{Version: version}

	cfg, err := config.Load()
	if err != nil {
		logging.Warn().Err(err).Msg("Configuration could not be loaded; only --version and --help are available")
	} else {
		client := &http.Client{Timeout: 30 * time.Second}
		deps.Config = cfg
		deps.Store = messagestore.NewClient(cfg.Messages, client)
		if locator, err := geoip.NewLocator(cfg.GeoIP, client); err != nil {
			logging.Warn().Err(err).Msg("GeoIP locator unavailable")
		} else {
			deps.Locator = locator
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
