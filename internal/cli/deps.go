// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package cli

import (
	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/messagestore"
)

// Dependencies are the collaborators the commands run against.
type Dependencies struct {
	Config  *config.Config
	Store   messagestore.Store
	Locator location.IPLocator
	Version string
}
