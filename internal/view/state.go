// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package view

import (
	"time"

	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/validation"
)

// Affordance is what the message card shows.
type Affordance string

const (
	// AffordanceForm shows the name and message form.
	AffordanceForm Affordance = "form"
	// AffordanceLoading shows the spinner.
	AffordanceLoading Affordance = "loading"
	// AffordanceThanks shows the thank-you note.
	AffordanceThanks Affordance = "thanks"
	// AffordanceError shows the failure reason with a retry button.
	AffordanceError Affordance = "error"
)

// State is an immutable snapshot of a session.
type State struct {
	SessionID      string                  `json:"session_id"`
	Version        uint64                  `json:"version"`
	Center         models.Coordinate       `json:"center"`
	Zoom           int                     `json:"zoom"`
	LocationKnown  bool                    `json:"location_known"`
	LocationSource location.Source         `json:"location_source,omitempty"`
	MessagesLoaded bool                    `json:"messages_loaded"`
	Groups         []models.GroupedMessage `json:"groups"`
	Draft          models.UserMessageDraft `json:"draft"`
	Phase          models.Phase            `json:"phase"`
	Affordance     Affordance              `json:"affordance"`
	CanSubmit      bool                    `json:"can_submit"`
	DraftErrors    map[string]string       `json:"draft_errors,omitempty"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// affordanceFor derives the card content. A known location is required
// before the form is offered, matching the submit gate.
func affordanceFor(phase models.Phase, locationKnown bool) Affordance {
	switch phase.Kind() {
	case models.PhaseSending:
		return AffordanceLoading
	case models.PhaseSent:
		return AffordanceThanks
	case models.PhaseFailed:
		return AffordanceError
	}
	if !locationKnown {
		return AffordanceLoading
	}
	return AffordanceForm
}

// derive fills the computed fields of a snapshot.
func (st *State) derive() {
	st.Affordance = affordanceFor(st.Phase, st.LocationKnown)
	st.CanSubmit = validation.ValidateDraft(st.Draft, st.LocationKnown) &&
		(st.Phase.Is(models.PhaseIdle) || st.Phase.Is(models.PhaseFailed))
	st.DraftErrors = validation.DraftErrors(st.Draft)
}
