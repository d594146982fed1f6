// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package services adapts GuestMap components to suture's Serve(ctx) pattern.

  - HTTPServerService: ListenAndServe with a bounded graceful Shutdown.
  - WebSocketHubService: the view update hub; closes clients on shutdown.
  - SessionReaperService: reaps idle view sessions and closes all of them
    on shutdown.

Each wrapper depends on a one-method interface rather than the concrete
component, so tests can substitute doubles.

Return values drive supervisor behavior:

	nil        -> stopped cleanly, not restarted
	error      -> crashed, restarted with backoff
	ctx.Err()  -> shutdown requested
*/
package services
