// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestMessage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Message
		wantErr error
	}{
		{
			name:  "string id under _id",
			input: `{"_id":"5c8f","name":"Ana","message":"hi","latitude":51.5,"longitude":-0.1}`,
			want:  Message{ID: "5c8f", Name: "Ana", Message: "hi", Latitude: 51.5, Longitude: -0.1},
		},
		{
			name:  "numeric id under id",
			input: `{"id":42,"name":"Bo","message":"yo","latitude":1,"longitude":2}`,
			want:  Message{ID: "42", Name: "Bo", Message: "yo", Latitude: 1, Longitude: 2},
		},
		{
			name:  "extended json object id",
			input: `{"_id":{"$oid":"64b0"},"name":"Cy","message":"hey","latitude":0,"longitude":0}`,
			want:  Message{ID: "64b0", Name: "Cy", Message: "hey"},
		},
		{
			name:  "id wins over _id",
			input: `{"id":"a","_id":"b","name":"D","message":"m","latitude":3,"longitude":4}`,
			want:  Message{ID: "a", Name: "D", Message: "m", Latitude: 3, Longitude: 4},
		},
		{
			name:  "string coordinates",
			input: `{"id":"x","name":"E","message":"m","latitude":" 48.8566","longitude":"2.3522"}`,
			want:  Message{ID: "x", Name: "E", Message: "m", Latitude: 48.8566, Longitude: 2.3522},
		},
		{
			name:    "missing id",
			input:   `{"name":"F","message":"m","latitude":1,"longitude":2}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "missing latitude",
			input:   `{"id":"y","name":"G","message":"m","longitude":2}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "null longitude",
			input:   `{"id":"y","name":"G","message":"m","latitude":1,"longitude":null}`,
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Message
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMessage_UnmarshalJSON_BadCoordinate(t *testing.T) {
	var m Message
	err := json.Unmarshal([]byte(`{"id":"z","name":"H","message":"m","latitude":"north","longitude":1}`), &m)
	if err == nil || !strings.Contains(err.Error(), "parse coordinate") {
		t.Fatalf("Unmarshal() error = %v, want parse coordinate error", err)
	}
}

func TestMessage_MarshalUsesID(t *testing.T) {
	data, err := json.Marshal(Message{ID: "abc", Name: "n", Message: "m", Latitude: 1, Longitude: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"id":"abc"`) {
		t.Errorf("Marshal() = %s, want id key", data)
	}
}

func TestNewMessageFromDraft(t *testing.T) {
	got := NewMessageFromDraft(
		UserMessageDraft{Name: "Ana", Message: "hello"},
		Coordinate{Lat: 10.5, Lng: -20.25},
	)
	want := NewMessage{Name: "Ana", Message: "hello", Latitude: 10.5, Longitude: -20.25}
	if got != want {
		t.Errorf("NewMessageFromDraft() = %+v, want %+v", got, want)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	const wantBody = `{"name":"Ana","message":"hello","latitude":10.5,"longitude":-20.25}`
	if string(data) != wantBody {
		t.Errorf("body = %s, want %s", data, wantBody)
	}
}

func TestGroupedMessage_MarshalEmptyOverflow(t *testing.T) {
	g := GroupedMessage{Key: "1.0001.000", Representative: Message{ID: "1"}, Overflow: []Message{}}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"overflow":[]`) {
		t.Errorf("Marshal() = %s, want empty overflow array", data)
	}
	if g.Size() != 1 {
		t.Errorf("Size() = %d, want 1", g.Size())
	}
}

func TestUserMessageDraft_With(t *testing.T) {
	d := UserMessageDraft{}

	d, err := d.With(DraftFieldName, "Ana")
	if err != nil {
		t.Fatalf("With(name) error = %v", err)
	}
	d, err = d.With(DraftFieldMessage, "hi")
	if err != nil {
		t.Fatalf("With(message) error = %v", err)
	}
	if d.Name != "Ana" || d.Message != "hi" {
		t.Errorf("draft = %+v", d)
	}

	if _, err := d.With("email", "x"); err == nil {
		t.Error("With(unknown) should fail")
	}
}
