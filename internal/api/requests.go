// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guestmap/internal/location"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/validation"
)

// maxRequestBody bounds every JSON request body.
const maxRequestBody = 16 << 10

// DraftRequest is one input event on the message form.
type DraftRequest struct {
	Field string `json:"field" validate:"required,oneof=name message"`
	Value string `json:"value" validate:"max=5000"`
}

// LocationRequest is the browser geolocation result: either lat and lng, or
// error. Coordinates are not range-checked here; an unusable device position
// is treated as a device failure and triggers the IP fallback.
type LocationRequest struct {
	Lat   *float64              `json:"lat,omitempty"`
	Lng   *float64              `json:"lng,omitempty"`
	Error *location.ReportError `json:"error,omitempty"`
}

// Report converts the request into a device report. A body carrying
// neither a full position nor an error yields an empty report.
func (req LocationRequest) Report() location.Report {
	switch {
	case req.Error != nil:
		return location.Report{Error: req.Error}
	case req.Lat != nil && req.Lng != nil:
		return location.PositionReport(models.Coordinate{Lat: *req.Lat, Lng: *req.Lng})
	default:
		return location.Report{}
	}
}

// StartOverRequest begins a new submission cycle.
type StartOverRequest struct {
	ClearDraft bool `json:"clear_draft"`
}

// errEmptyBody is returned by decodeJSON for a missing body when one is required.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a bounded JSON body into dst and validates struct tags.
// An empty body is accepted when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if optional {
			return nil
		}
		return errEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// writeDecodeError answers a failed decodeJSON.
func writeDecodeError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		rw.ValidationError("Request validation failed", verr.FieldMessages())
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		return
	}
	rw.BadRequest("Invalid request body")
}
