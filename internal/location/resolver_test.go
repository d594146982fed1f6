// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package location

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/guestmap/internal/models"
)

type countingIPLocator struct {
	calls int
	addrs []string
	coord models.Coordinate
	err   error
}

func (c *countingIPLocator) Locate(_ context.Context, remoteAddr string) (models.Coordinate, error) {
	c.calls++
	c.addrs = append(c.addrs, remoteAddr)
	return c.coord, c.err
}

func TestResolver_FallbackOrder(t *testing.T) {
	device := models.Coordinate{Lat: 40.7128, Lng: -74.006}
	fallback := models.Coordinate{Lat: 52.52, Lng: 13.405}
	ipErr := errors.New("lookup failed")

	tests := []struct {
		name          string
		device        DeviceLocator
		ipErr         error
		wantCoord     models.Coordinate
		wantSource    Source
		wantFallbacks int
		wantErr       bool
	}{
		{
			name:          "device success makes no fallback",
			device:        PositionReport(device),
			wantCoord:     device,
			wantSource:    SourceDevice,
			wantFallbacks: 0,
		},
		{
			name:          "denied uses one fallback",
			device:        DeniedReport("User denied Geolocation"),
			wantCoord:     fallback,
			wantSource:    SourceIP,
			wantFallbacks: 1,
		},
		{
			name:          "timeout uses one fallback",
			device:        Report{Error: &ReportError{Code: CodeTimeout}},
			wantCoord:     fallback,
			wantSource:    SourceIP,
			wantFallbacks: 1,
		},
		{
			name:          "empty report uses one fallback",
			device:        Report{},
			wantCoord:     fallback,
			wantSource:    SourceIP,
			wantFallbacks: 1,
		},
		{
			name:          "nil device uses one fallback",
			device:        nil,
			wantCoord:     fallback,
			wantSource:    SourceIP,
			wantFallbacks: 1,
		},
		{
			name:          "out of range device position uses one fallback",
			device:        PositionReport(models.Coordinate{Lat: 91, Lng: 0}),
			wantCoord:     fallback,
			wantSource:    SourceIP,
			wantFallbacks: 1,
		},
		{
			name:          "both fail",
			device:        DeniedReport(""),
			ipErr:         ipErr,
			wantFallbacks: 1,
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := &countingIPLocator{coord: fallback, err: tt.ipErr}
			r := NewResolver(ip)

			res, err := r.Resolve(context.Background(), tt.device, "203.0.113.9")
			if ip.calls != tt.wantFallbacks {
				t.Errorf("fallback lookups = %d, want %d", ip.calls, tt.wantFallbacks)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnresolved) {
					t.Fatalf("Resolve() error = %v, want ErrUnresolved", err)
				}
				if !errors.Is(err, ipErr) {
					t.Errorf("Resolve() error = %v, should wrap the fallback error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if res.Coordinate != tt.wantCoord || res.Source != tt.wantSource {
				t.Errorf("Resolve() = %+v, want %v from %s", res, tt.wantCoord, tt.wantSource)
			}
		})
	}
}

func TestResolver_PassesRemoteAddr(t *testing.T) {
	ip := &countingIPLocator{}
	r := NewResolver(ip)

	if _, err := r.Resolve(context.Background(), DeniedReport(""), "198.51.100.4:5000"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(ip.addrs) != 1 || ip.addrs[0] != "198.51.100.4:5000" {
		t.Errorf("fallback addrs = %v", ip.addrs)
	}
}

func TestResolver_NoIPLocator(t *testing.T) {
	r := NewResolver(nil)

	_, err := r.Resolve(context.Background(), DeniedReport("nope"), "")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Resolve() error = %v, want ErrUnresolved", err)
	}
	var devErr *DeviceError
	if !errors.As(err, &devErr) || devErr.Code != CodePermissionDenied {
		t.Errorf("Resolve() error = %v, want wrapped DeviceError", err)
	}
}

func TestDeviceError_Error(t *testing.T) {
	tests := []struct {
		err  *DeviceError
		want string
	}{
		{&DeviceError{Code: CodePermissionDenied}, "device geolocation failed: PERMISSION_DENIED"},
		{&DeviceError{Code: CodeTimeout, Message: "took too long"}, "device geolocation failed: TIMEOUT: took too long"},
		{&DeviceError{Code: DeviceErrorCode(9)}, "device geolocation failed: UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
