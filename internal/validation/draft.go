// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package validation

import "github.com/tomtom215/guestmap/internal/models"

// ValidateDraft is the submit gate: the draft is submittable when name and
// message are each 1 to 500 characters and the visitor's location is known.
func ValidateDraft(draft models.UserMessageDraft, locationKnown bool) bool {
	if !locationKnown {
		return false
	}
	return ValidateStruct(&draft) == nil
}

// DraftErrors returns per-field messages for the draft, or nil when both
// fields are valid. It does not consider location.
func DraftErrors(draft models.UserMessageDraft) map[string]string {
	if err := ValidateStruct(&draft); err != nil {
		return err.FieldMessages()
	}
	return nil
}

// ValidateMessage checks a record decoded from the message service.
func ValidateMessage(m *models.Message) error {
	if err := ValidateStruct(m); err != nil {
		return err
	}
	return nil
}
