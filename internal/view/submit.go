// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package view

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/guestmap/internal/breaker"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/messagestore"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/validation"
)

// User-visible failure reasons.
const (
	reasonTimeout     = "The message service did not respond in time. Please try again."
	reasonUnavailable = "The message service is unavailable right now. Please try again later."
	reasonRejected    = "The message service rejected your message."
	reasonGeneric     = "Your message could not be sent. Please try again."
)

// Submit sends the draft pinned to the current center. The phase is Sending
// when Submit returns nil; the outcome arrives asynchronously as Sent after
// sent_delay or as Failed. Submitting from Failed retries.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastSeen = s.deps.now()

	st := s.state
	if !st.Phase.Is(models.PhaseIdle) && !st.Phase.Is(models.PhaseFailed) {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return ErrSubmitNotAllowed
	}
	if !validation.ValidateDraft(st.Draft, st.LocationKnown) {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return ErrDraftInvalid
	}

	s.cycle++
	cycle := s.cycle
	msg := models.NewMessageFromDraft(st.Draft, st.Center)

	if err := s.applyLocked(func(st *State) error {
		st.Phase = models.Sending()
		return nil
	}); err != nil {
		return err
	}

	s.goLocked(func(ctx context.Context) {
		s.send(ctx, cycle, msg)
	})
	return nil
}

// StartOver begins a new message cycle after Sent. It is only available when
// view.allow_multiple_messages is enabled.
func (s *Session) StartOver(clearDraft bool) error {
	return s.mutate(func(st *State) error {
		if !s.deps.cfg.AllowMultipleMessages || !st.Phase.Is(models.PhaseSent) {
			return ErrSubmitNotAllowed
		}
		st.Phase = models.Idle()
		if clearDraft {
			st.Draft = models.UserMessageDraft{}
		}
		return nil
	})
}

func (s *Session) send(ctx context.Context, cycle uint64, msg models.NewMessage) {
	log := logging.Ctx(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, s.deps.cfg.SubmitTimeout)
	created, err := s.deps.store.Create(reqCtx, msg)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.Submissions.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Msg("Message submission failed")
		s.finishCycle(cycle, models.Failed(failureReason(err)))
		return
	}
	metrics.Submissions.WithLabelValues("sent").Inc()
	log.Info().Str("message_id", string(created.ID)).Msg("Message submitted")

	if delay := s.deps.cfg.SentDelay; delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
	s.finishCycle(cycle, models.Sent())
}

// finishCycle moves Sending to the outcome phase if cycle is still current.
func (s *Session) finishCycle(cycle uint64, outcome models.Phase) {
	_ = s.update(func(st *State) error {
		if s.cycle != cycle || !st.Phase.Is(models.PhaseSending) {
			return errStale
		}
		st.Phase = outcome
		return nil
	})
}

// failureReason maps a create error to a message for the visitor.
func failureReason(err error) string {
	var se *messagestore.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, breaker.ErrOpen):
		return reasonUnavailable
	case errors.As(err, &se) && se.StatusCode >= http.StatusBadRequest && se.StatusCode < http.StatusInternalServerError:
		return reasonRejected
	case errors.As(err, &se):
		return reasonUnavailable
	default:
		return reasonGeneric
	}
}
