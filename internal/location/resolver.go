// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/models"
)

// Source identifies where a resolved coordinate came from.
type Source string

const (
	SourceDevice Source = "device"
	SourceIP     Source = "ip"
)

// ErrUnresolved is returned when both the device and the IP fallback fail.
var ErrUnresolved = errors.New("location unresolved")

// IPLocator is the fallback position source. geoip.Locator implements it.
type IPLocator interface {
	Locate(ctx context.Context, remoteAddr string) (models.Coordinate, error)
}

// Resolution is a successfully resolved visitor position.
type Resolution struct {
	Coordinate models.Coordinate `json:"coordinate"`
	Source     Source            `json:"source"`
}

// Resolver combines the device result with one IP fallback.
type Resolver struct {
	ip IPLocator
}

// NewResolver creates a Resolver. ip may be nil, in which case a device
// failure leaves the visitor unresolved.
func NewResolver(ip IPLocator) *Resolver {
	return &Resolver{ip: ip}
}

// Resolve returns the device coordinate when available. Otherwise it makes
// exactly one fallback lookup for remoteAddr. A nil device counts as a
// device failure.
func (r *Resolver) Resolve(ctx context.Context, device DeviceLocator, remoteAddr string) (Resolution, error) {
	log := logging.Ctx(ctx)

	deviceErr := ErrNoDeviceReport
	if device != nil {
		coord, err := device.Position(ctx)
		if err == nil {
			metrics.RecordLocation(string(SourceDevice), true)
			return Resolution{Coordinate: coord, Source: SourceDevice}, nil
		}
		deviceErr = err
	}
	metrics.RecordLocation(string(SourceDevice), false)
	log.Debug().Err(deviceErr).Msg("Device location unavailable, falling back to IP geolocation")

	if r.ip == nil {
		return Resolution{}, fmt.Errorf("%w: %w", ErrUnresolved, deviceErr)
	}

	coord, err := r.ip.Locate(ctx, remoteAddr)
	if err != nil {
		metrics.RecordLocation(string(SourceIP), false)
		log.Info().Err(err).Msg("IP geolocation fallback failed, keeping default position")
		return Resolution{}, fmt.Errorf("%w: %w", ErrUnresolved, errors.Join(deviceErr, err))
	}

	metrics.RecordLocation(string(SourceIP), true)
	return Resolution{Coordinate: coord, Source: SourceIP}, nil
}
