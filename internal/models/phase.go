// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// PhaseKind enumerates the submission phases.
type PhaseKind int

const (
	PhaseIdle PhaseKind = iota
	PhaseSending
	PhaseSent
	PhaseFailed
)

var phaseNames = map[PhaseKind]string{
	PhaseIdle:    "idle",
	PhaseSending: "sending",
	PhaseSent:    "sent",
	PhaseFailed:  "failed",
}

// String returns the lowercase phase name.
func (k PhaseKind) String() string {
	if name, ok := phaseNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PhaseKind(%d)", int(k))
}

// Phase is the submission state of a view. Only a failed phase carries a
// reason. The zero value is Idle.
type Phase struct {
	kind   PhaseKind
	reason string
}

// Idle returns the phase before any submission.
func Idle() Phase { return Phase{kind: PhaseIdle} }

// Sending returns the phase while a create request is in flight.
func Sending() Phase { return Phase{kind: PhaseSending} }

// Sent returns the phase after a successful submission.
func Sent() Phase { return Phase{kind: PhaseSent} }

// Failed returns a failed phase with a reason the visitor can read.
func Failed(reason string) Phase { return Phase{kind: PhaseFailed, reason: reason} }

// Kind returns the phase discriminator.
func (p Phase) Kind() PhaseKind { return p.kind }

// Reason returns the failure reason, or "" for other phases.
func (p Phase) Reason() string { return p.reason }

// Is reports whether the phase is of kind k.
func (p Phase) Is(k PhaseKind) bool { return p.kind == k }

func (p Phase) String() string {
	if p.kind == PhaseFailed {
		return fmt.Sprintf("failed(%s)", p.reason)
	}
	return p.kind.String()
}

type phaseJSON struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// MarshalJSON encodes the phase as {"state": "...", "reason": "..."}.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(phaseJSON{State: p.kind.String(), Reason: p.reason})
}

// UnmarshalJSON decodes a phase written by MarshalJSON.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var v phaseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	for kind, name := range phaseNames {
		if name != v.State {
			continue
		}
		if kind == PhaseFailed {
			*p = Failed(v.Reason)
		} else {
			*p = Phase{kind: kind}
		}
		return nil
	}
	return fmt.Errorf("unknown phase %q", v.State)
}
