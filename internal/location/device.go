// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/validation"
)

// DeviceErrorCode mirrors the browser GeolocationPositionError codes.
type DeviceErrorCode int

const (
	// CodeUnknown is used when the browser did not supply a code.
	CodeUnknown DeviceErrorCode = 0
	// CodePermissionDenied means the visitor refused the prompt.
	CodePermissionDenied DeviceErrorCode = 1
	// CodePositionUnavailable means the device could not determine a position.
	CodePositionUnavailable DeviceErrorCode = 2
	// CodeTimeout means the device did not answer in time.
	CodeTimeout DeviceErrorCode = 3
)

// String returns the browser constant name.
func (c DeviceErrorCode) String() string {
	switch c {
	case CodePermissionDenied:
		return "PERMISSION_DENIED"
	case CodePositionUnavailable:
		return "POSITION_UNAVAILABLE"
	case CodeTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// DeviceError is a failed device geolocation request.
type DeviceError struct {
	Code    DeviceErrorCode
	Message string
}

func (e *DeviceError) Error() string {
	if e.Message == "" {
		return "device geolocation failed: " + e.Code.String()
	}
	return fmt.Sprintf("device geolocation failed: %s: %s", e.Code, e.Message)
}

// ErrNoDeviceReport is returned when no device result was supplied.
var ErrNoDeviceReport = errors.New("no device position reported")

// DeviceLocator is the primary position source.
type DeviceLocator interface {
	Position(ctx context.Context) (models.Coordinate, error)
}

// Report is the device geolocation result posted by the browser. Exactly one
// of Coordinate and Error is meaningful.
type Report struct {
	Coordinate *models.Coordinate `json:"coordinate,omitempty"`
	Error      *ReportError       `json:"error,omitempty"`
}

// ReportError is the wire form of a DeviceError.
type ReportError struct {
	Code    DeviceErrorCode `json:"code"`
	Message string          `json:"message"`
}

// PositionReport returns a successful report for c.
func PositionReport(c models.Coordinate) Report {
	return Report{Coordinate: &c}
}

// DeniedReport returns a permission-denied report.
func DeniedReport(message string) Report {
	return Report{Error: &ReportError{Code: CodePermissionDenied, Message: message}}
}

// Position implements DeviceLocator. A reported coordinate outside the valid
// range is treated as a device failure so the fallback still runs.
func (r Report) Position(context.Context) (models.Coordinate, error) {
	if r.Error != nil {
		return models.Coordinate{}, &DeviceError{Code: r.Error.Code, Message: r.Error.Message}
	}
	if r.Coordinate == nil {
		return models.Coordinate{}, ErrNoDeviceReport
	}
	if err := validation.ValidateStruct(r.Coordinate); err != nil {
		return models.Coordinate{}, &DeviceError{Code: CodePositionUnavailable, Message: err.Error()}
	}
	return *r.Coordinate, nil
}
