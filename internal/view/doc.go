// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package view owns the map view state of each visitor.

A Session is one mounted map page. It holds the map center and zoom, whether
the visitor's location is known, the grouped message markers, the message
draft and the submission Phase. Every mutation goes through a single
serialized update path that bumps the version and publishes a snapshot, so
concurrent completions (message list, location, submission) are applied one
at a time in arrival order.

Lifecycle:

	mgr := view.NewManager(cfg.View, store, resolver, hub)
	s, _ := mgr.Open(ctx, remoteAddr)      // starts the message fetch
	_ = s.ReportLocation(report)            // device result, IP fallback
	_ = s.SetDraft(models.DraftFieldName, "Ana")
	_ = s.Submit()                          // Idle -> Sending -> Sent
	_ = mgr.Close(s.ID())

Phases:

	Idle --Submit--> Sending --ok, after sent_delay--> Sent
	                   |
	                   +--error or timeout--> Failed(reason) --Submit--> Sending

Sent is terminal for the cycle. StartOver returns to Idle only when
view.allow_multiple_messages is enabled.

Closing a session cancels its context and waits for every goroutine it
started. Completions that arrive after Close are discarded.
*/
package view
