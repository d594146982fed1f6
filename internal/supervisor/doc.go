// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package supervisor provides process supervision for GuestMap using suture v4.

The tree separates long-running services into two layers so that a crash in
one does not take down the other:

	RootSupervisor ("guestmap")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── SessionReaperService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold is
exceeded. Supervisor events (start, stop, failure, backoff) are logged
through a sutureslog hook on the slog logger passed to NewSupervisorTree.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewSessionReaperService(views))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Serve returns once every service has stopped or ShutdownTimeout elapses;
UnstoppedServiceReport names the stragglers.
*/
package supervisor
