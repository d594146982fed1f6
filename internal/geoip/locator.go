// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package geoip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/guestmap/internal/breaker"
	"github.com/tomtom215/guestmap/internal/cache"
	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/models"
)

var (
	// ErrLocationLookup wraps every IP geolocation failure.
	ErrLocationLookup = errors.New("ip geolocation failed")

	// ErrPrivateAddress is returned for addresses that cannot be geolocated.
	ErrPrivateAddress = errors.New("address is private or loopback")
)

// selfKey is the cache and singleflight key for lookups of the caller's own address.
const selfKey = "self"

// Locator resolves IP addresses through a Provider with caching, request
// collapsing, rate limiting and a circuit breaker.
type Locator struct {
	provider Provider
	timeout  time.Duration
	cache    *cache.LRU[models.Coordinate]
	limiter  *rate.Limiter
	group    singleflight.Group
	breaker  *breaker.Breaker[models.Coordinate]
}

// NewLocator builds a Locator for cfg. client is shared with other outbound
// calls; per-lookup deadlines come from cfg.Timeout.
func NewLocator(cfg config.GeoIPConfig, client *http.Client) (*Locator, error) {
	provider, err := NewProvider(cfg.Provider, client, cfg.URL)
	if err != nil {
		return nil, err
	}
	return NewLocatorWithProvider(provider, cfg), nil
}

// NewLocatorWithProvider builds a Locator around an existing provider.
func NewLocatorWithProvider(provider Provider, cfg config.GeoIPConfig) *Locator {
	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 40
	}
	burst := perMinute / 4
	if burst < 1 {
		burst = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	l := &Locator{
		provider: provider,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
		breaker: breaker.New[models.Coordinate](breaker.Settings{
			Name:                "geoip-" + provider.Name(),
			ConsecutiveFailures: cfg.BreakerFailures,
			Timeout:             cfg.BreakerTimeout,
		}),
	}
	if cfg.CacheSize > 0 {
		l.cache = cache.NewLRU[models.Coordinate](cfg.CacheSize, cfg.CacheTTL)
	}
	return l
}

// Provider returns the name of the underlying provider.
func (l *Locator) Provider() string {
	return l.provider.Name()
}

// BreakerState reports the provider circuit breaker state.
func (l *Locator) BreakerState() string {
	return l.breaker.State()
}

// Locate returns the coordinate of remoteAddr. An empty address locates the
// server's own public address through the provider's self endpoint.
func (l *Locator) Locate(ctx context.Context, remoteAddr string) (models.Coordinate, error) {
	ip := NormalizeIPAddress(remoteAddr)
	key := selfKey

	if ip != "" {
		if net.ParseIP(ip) == nil {
			l.record("error")
			return models.Coordinate{}, fmt.Errorf("%w: invalid IP address %q", ErrLocationLookup, ip)
		}
		if IsPrivateIP(ip) {
			l.record("private")
			return models.Coordinate{}, fmt.Errorf("%w: %w: %s", ErrLocationLookup, ErrPrivateAddress, ip)
		}
		key = ip
	}

	if l.cache != nil {
		if coord, ok := l.cache.Get(key); ok {
			l.record("cache_hit")
			return coord, nil
		}
	}

	// The shared lookup must outlive any single caller's cancellation.
	ch := l.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.lookup(lookupCtx, ip, key)
	})

	select {
	case <-ctx.Done():
		return models.Coordinate{}, fmt.Errorf("%w: %w", ErrLocationLookup, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return models.Coordinate{}, res.Err
		}
		return res.Val.(models.Coordinate), nil
	}
}

func (l *Locator) lookup(ctx context.Context, ip, key string) (models.Coordinate, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		l.record("rate_limited")
		return models.Coordinate{}, fmt.Errorf("%w: %s rate limit: %w", ErrLocationLookup, l.provider.Name(), err)
	}

	start := time.Now()
	coord, err := l.breaker.Execute(func() (models.Coordinate, error) {
		return l.provider.Lookup(ctx, ip)
	})
	metrics.RecordExternalCall(l.provider.Name(), "lookup", time.Since(start))

	if err != nil {
		l.record("error")
		logging.Ctx(ctx).Debug().Err(err).Str("provider", l.provider.Name()).Str("ip", key).Msg("IP geolocation lookup failed")
		return models.Coordinate{}, fmt.Errorf("%w: %w", ErrLocationLookup, err)
	}

	l.record("success")
	if l.cache != nil {
		l.cache.Add(key, coord)
	}
	return coord, nil
}

func (l *Locator) record(result string) {
	metrics.GeoIPLookups.WithLabelValues(l.provider.Name(), result).Inc()
}
