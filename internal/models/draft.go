// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package models

import "fmt"

// DraftField names an editable field of the draft.
type DraftField string

const (
	DraftFieldName    DraftField = "name"
	DraftFieldMessage DraftField = "message"
)

// UserMessageDraft holds what the visitor has typed so far. It is updated on
// every input event and is not cleared by a successful submit.
type UserMessageDraft struct {
	Name    string `json:"name" validate:"min=1,max=500"`
	Message string `json:"message" validate:"min=1,max=500"`
}

// With returns a copy of the draft with field set to value.
func (d UserMessageDraft) With(field DraftField, value string) (UserMessageDraft, error) {
	switch field {
	case DraftFieldName:
		d.Name = value
	case DraftFieldMessage:
		d.Message = value
	default:
		return d, fmt.Errorf("unknown draft field %q", field)
	}
	return d, nil
}
