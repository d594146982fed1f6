// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

// Package validation checks drafts and message records with
// go-playground/validator v10.
//
// A singleton validator reports fields by their JSON names and translates
// failures into short messages ("name must not be empty"). String lengths are
// counted in characters, so a 500 character message of multi-byte runes is
// still valid.
//
// ValidateDraft is the submit gate and only answers yes or no. DraftErrors
// gives the page per-field messages without affecting the gate.
package validation
