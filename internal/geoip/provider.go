// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package geoip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guestmap/internal/models"
)

const userAgent = "guestmap/1.0 (+https://github.com/tomtom215/guestmap)"

// Provider looks up the coordinate of an IP address with one request.
// An empty ip means "the caller's own address".
type Provider interface {
	Lookup(ctx context.Context, ip string) (models.Coordinate, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}

// ========================================
// ipapi.co Provider
// ========================================

// IPAPICoProvider implements Provider using https://ipapi.co.
// Free tier: 1,000 lookups/day, HTTPS, no key.
type IPAPICoProvider struct {
	client  *http.Client
	baseURL string
}

// ipapiCoResponse is the subset of the ipapi.co response used here.
type ipapiCoResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// NewIPAPICoProvider creates an ipapi.co provider. baseURL may be empty.
func NewIPAPICoProvider(client *http.Client, baseURL string) *IPAPICoProvider {
	if baseURL == "" {
		baseURL = "https://ipapi.co"
	}
	return &IPAPICoProvider{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the provider name.
func (p *IPAPICoProvider) Name() string {
	return "ipapi.co"
}

// Lookup queries ipapi.co for the coordinate of ip.
func (p *IPAPICoProvider) Lookup(ctx context.Context, ip string) (models.Coordinate, error) {
	endpoint := p.baseURL + "/json/"
	if ip != "" {
		endpoint = p.baseURL + "/" + url.PathEscape(ip) + "/json/"
	}

	var result ipapiCoResponse
	if err := getJSON(ctx, p.client, endpoint, p.Name(), &result); err != nil {
		return models.Coordinate{}, err
	}
	if result.Error {
		return models.Coordinate{}, fmt.Errorf("ipapi.co lookup failed: %s", result.Reason)
	}
	if result.Latitude == nil || result.Longitude == nil {
		return models.Coordinate{}, fmt.Errorf("ipapi.co response has no coordinates")
	}

	return checkCoordinate(p.Name(), *result.Latitude, *result.Longitude)
}

// ========================================
// ip-api.com Provider
// ========================================

// IPAPIComProvider implements Provider using the free http://ip-api.com
// endpoint. Free tier: 45 requests/minute, HTTP only, no key.
type IPAPIComProvider struct {
	client  *http.Client
	baseURL string
}

// ipAPIComResponse is the subset of the ip-api.com response used here.
type ipAPIComResponse struct {
	Status  string  `json:"status"` // "success" or "fail"
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPAPIComProvider creates an ip-api.com provider. baseURL may be empty.
func NewIPAPIComProvider(client *http.Client, baseURL string) *IPAPIComProvider {
	if baseURL == "" {
		baseURL = "http://ip-api.com"
	}
	return &IPAPIComProvider{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the provider name.
func (p *IPAPIComProvider) Name() string {
	return "ip-api.com"
}

// Lookup queries ip-api.com for the coordinate of ip.
func (p *IPAPIComProvider) Lookup(ctx context.Context, ip string) (models.Coordinate, error) {
	endpoint := p.baseURL + "/json"
	if ip != "" {
		endpoint += "/" + url.PathEscape(ip)
	}
	endpoint += "?fields=status,message,lat,lon"

	var result ipAPIComResponse
	if err := getJSON(ctx, p.client, endpoint, p.Name(), &result); err != nil {
		return models.Coordinate{}, err
	}
	if result.Status != "success" {
		return models.Coordinate{}, fmt.Errorf("ip-api.com lookup failed: %s", result.Message)
	}

	return checkCoordinate(p.Name(), result.Lat, result.Lon)
}

// NewProvider builds the provider named by name ("ipapi" or "ip-api").
func NewProvider(name string, client *http.Client, baseURL string) (Provider, error) {
	switch name {
	case "ipapi", "":
		return NewIPAPICoProvider(client, baseURL), nil
	case "ip-api":
		return NewIPAPIComProvider(client, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown geoip provider %q", name)
	}
}

// getJSON performs a GET and decodes a 200 response into out.
func getJSON(ctx context.Context, client *http.Client, endpoint, provider string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // draining for connection reuse
		return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", provider, err)
	}
	return nil
}

func checkCoordinate(provider string, lat, lng float64) (models.Coordinate, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.Coordinate{}, fmt.Errorf("%s returned out of range coordinate (%v, %v)", provider, lat, lng)
	}
	return models.Coordinate{Lat: lat, Lng: lng}, nil
}
