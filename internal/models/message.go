// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Field length limits shared by messages and drafts, counted in characters.
const (
	MinFieldLength = 1
	MaxFieldLength = 500
)

// ErrMissingField is returned when a decoded message lacks its id or coordinates.
var ErrMissingField = errors.New("missing required field")

// MessageID is the opaque identifier assigned by the message service.
// It is only used for identity and never interpreted.
type MessageID string

// UnmarshalJSON accepts a JSON string, a JSON number or a {"$oid": "..."}
// object. Numbers keep their literal text.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode message id: %w", err)
		}
		*id = MessageID(s)
	case '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &oid); err != nil {
			return fmt.Errorf("decode message id: %w", err)
		}
		*id = MessageID(oid.OID)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("message id must be a string or number: %w", err)
		}
		*id = MessageID(n.String())
	}
	return nil
}

// Message is a guestbook entry as stored by the message service.
// Messages are never edited or deleted by this application.
type Message struct {
	ID        MessageID `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"min=1,max=500"`
	Message   string    `json:"message" validate:"min=1,max=500"`
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
}

// messageWire is the tolerant decoding shape of a Message.
type messageWire struct {
	ID        *MessageID `json:"id"`
	MongoID   *MessageID `json:"_id"`
	Name      string     `json:"name"`
	Message   string     `json:"message"`
	Latitude  *degrees   `json:"latitude"`
	Longitude *degrees   `json:"longitude"`
}

// UnmarshalJSON decodes a message record, taking the id from "id" or "_id".
// Missing coordinates are an error; range checks are left to validation.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var id MessageID
	switch {
	case w.ID != nil && *w.ID != "":
		id = *w.ID
	case w.MongoID != nil:
		id = *w.MongoID
	}
	if id == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if w.Latitude == nil {
		return fmt.Errorf("%w: latitude", ErrMissingField)
	}
	if w.Longitude == nil {
		return fmt.Errorf("%w: longitude", ErrMissingField)
	}

	*m = Message{
		ID:        id,
		Name:      w.Name,
		Message:   w.Message,
		Latitude:  float64(*w.Latitude),
		Longitude: float64(*w.Longitude),
	}
	return nil
}

// Coordinate returns the position the message is pinned to.
func (m Message) Coordinate() Coordinate {
	return Coordinate{Lat: m.Latitude, Lng: m.Longitude}
}

// NewMessage is the create request body sent to the message service.
type NewMessage struct {
	Name      string  `json:"name"`
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewMessageFromDraft combines a draft with the resolved coordinate.
func NewMessageFromDraft(d UserMessageDraft, at Coordinate) NewMessage {
	return NewMessage{
		Name:      d.Name,
		Message:   d.Message,
		Latitude:  at.Lat,
		Longitude: at.Lng,
	}
}

// GroupedMessage is the set of messages that share one rounding key.
// The representative is the first message seen with the key and is shown
// as the marker; the overflow lists the rest in input order.
type GroupedMessage struct {
	Key            string    `json:"key"`
	Representative Message   `json:"representative"`
	Overflow       []Message `json:"overflow"`
}

// Size returns the number of messages in the group.
func (g GroupedMessage) Size() int {
	return 1 + len(g.Overflow)
}
