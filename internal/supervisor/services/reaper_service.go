// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package services

import (
	"context"
)

// SessionReaper matches *view.Manager's RunReaper method.
type SessionReaper interface {
	RunReaper(ctx context.Context) error
}

// SessionReaperService runs the idle view session reaper as a supervised
// service. When the tree stops, the reaper closes every open session so
// that pending submit delays and location lookups are abandoned.
type SessionReaperService struct {
	reaper SessionReaper
	name   string
}

// NewSessionReaperService wraps reaper.
func NewSessionReaperService(reaper SessionReaper) *SessionReaperService {
	return &SessionReaperService{
		reaper: reaper,
		name:   "session-reaper",
	}
}

// Serve implements suture.Service.
func (s *SessionReaperService) Serve(ctx context.Context) error {
	return s.reaper.RunReaper(ctx)
}

// String identifies the service in supervisor events.
func (s *SessionReaperService) String() string {
	return s.name
}
