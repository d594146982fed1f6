// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/view"
)

// OpenView mounts a new map view for the visitor and starts loading messages.
func (h *Handler) OpenView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sess, err := h.views.Open(r.Context(), r.RemoteAddr)
	if err != nil {
		h.writeViewError(rw, r, nil, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("session_id", sess.ID()).
		Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
		Msg("View session opened")

	w.Header().Set("Location", "/api/v1/views/"+sess.ID())
	rw.Created(sess.Snapshot())
}

// GetView returns the current snapshot.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}
	rw.Success(sess.Snapshot())
}

// CloseView tears the session down and discards pending completions.
func (h *Handler) CloseView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.views.Close(chi.URLParam(r, "id")); err != nil {
		h.writeViewError(rw, r, nil, err)
		return
	}
	rw.NoContent()
}

// ReportLocation accepts the device geolocation result.
func (h *Handler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	var req LocationRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(rw, err)
		return
	}

	if err := sess.ReportLocation(req.Report()); err != nil {
		h.writeViewError(rw, r, sess, err)
		return
	}
	rw.Accepted(sess.Snapshot())
}

// UpdateDraft applies one input event to the form.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	var req DraftRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(rw, err)
		return
	}

	if err := sess.SetDraft(models.DraftField(req.Field), req.Value); err != nil {
		h.writeViewError(rw, r, sess, err)
		return
	}
	rw.Success(sess.Snapshot())
}

// Submit starts sending the draft. The response carries the Sending phase;
// the outcome arrives as a later snapshot.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	if err := sess.Submit(); err != nil {
		h.writeViewError(rw, r, sess, err)
		return
	}
	rw.Accepted(sess.Snapshot())
}

// StartOver returns a Sent view to Idle when multiple messages are allowed.
func (h *Handler) StartOver(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	var req StartOverRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeDecodeError(rw, err)
		return
	}

	if err := sess.StartOver(req.ClearDraft); err != nil {
		h.writeViewError(rw, r, sess, err)
		return
	}
	rw.Success(sess.Snapshot())
}

// Reload re-fetches the message list.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, ok := h.session(rw, r)
	if !ok {
		return
	}

	if err := sess.Reload(); err != nil {
		h.writeViewError(rw, r, sess, err)
		return
	}
	rw.Accepted(sess.Snapshot())
}

// session resolves the {id} URL parameter, answering the error itself.
func (h *Handler) session(rw *ResponseWriter, r *http.Request) (*view.Session, bool) {
	sess, err := h.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeViewError(rw, r, nil, err)
		return nil, false
	}
	return sess, true
}

// writeViewError maps view errors onto the API error envelope. sess may be
// nil when the error happened before a session was found.
func (h *Handler) writeViewError(rw *ResponseWriter, r *http.Request, sess *view.Session, err error) {
	switch {
	case errors.Is(err, view.ErrSessionNotFound):
		rw.NotFound("View session not found")
	case errors.Is(err, view.ErrSessionClosed):
		rw.Gone("View session closed")
	case errors.Is(err, view.ErrDraftInvalid):
		var details interface{}
		if sess != nil {
			details = sess.Snapshot().DraftErrors
		}
		rw.ValidationError("Message cannot be sent yet", details)
	case errors.Is(err, view.ErrSubmitNotAllowed):
		rw.Conflict("Not allowed in the current phase")
	case errors.Is(err, view.ErrLocationReported):
		rw.Conflict("Location already reported")
	case errors.Is(err, view.ErrTooManySessions):
		rw.ServiceUnavailable("Too many open views, please retry later")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("View operation failed")
		rw.InternalError("View operation failed")
	}
}
