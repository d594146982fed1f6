// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package websocket streams view session snapshots to the browser.

The package uses the gorilla/websocket library with a hub-client
architecture. Every client subscribes to exactly one topic, the ID of the
view session it renders, and only receives messages published to that
topic.

Key Components:

  - Hub: routes published messages to the clients of a topic
  - Client: one WebSocket connection with read and write goroutines
  - Message: typed envelope {"type": ..., "data": ...}

Architecture:

	view.Session --Publish(id, "snapshot", state)--> Hub
	                                                  |
	                         +------------------------+
	                         |                        |
	                  Client(topic=id)         Client(topic=id)

Each client has two goroutines:
  - readPump: reads from the connection, answers "ping" with "pong"
  - writePump: writes queued messages and keeps the connection alive

Message Types:

  - snapshot: full view state after each mutation (carries a version)
  - closed: the session was torn down; the page should reopen
  - ping / pong: application-level keepalive

Publish never blocks. When the hub or a client queue is full the message is
dropped and counted in websocket_errors_total. Snapshots are complete and
versioned, so a client that misses one catches up on the next; the page
ignores snapshots older than the one it already shows.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(hub, conn, sessionID)
	client.OnClose(detach)
	hub.Register <- client
	client.Enqueue(websocket.Message{Type: "snapshot", Data: session.Snapshot()})
	client.Start()
*/
package websocket
