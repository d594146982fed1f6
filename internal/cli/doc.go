// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

// Package cli implements guestmapctl, the operator command line for GuestMap.
//
// Commands:
//
//	messages   list messages from the message service, grouped as the map shows them
//	locate     resolve an IP address (or this host) through the geoip fallback
//	config     print the resolved server configuration
//
// Output is a plain table by default, or JSON/YAML with --format.
package cli
