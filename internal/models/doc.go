// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package models defines the data structures shared by GuestMap components.

Domain types:

  - Coordinate: a latitude/longitude pair, no normalization
  - Message: an immutable guestbook entry pinned to a coordinate
  - GroupedMessage: messages sharing a rounded coordinate key
  - UserMessageDraft: the visitor's in-progress name and message
  - NewMessage: the body sent to the message service on create
  - Phase: the submission phase (idle, sending, sent, failed)

Message decoding accepts the id under either "id" or "_id", as a JSON string,
a JSON number or a {"$oid": "..."} object, and coordinates as numbers or
numeric strings. Field constraints are expressed as validate tags and checked
by the validation package.
*/
package models
