// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package location resolves a best-effort coordinate for a visitor.

The device position reported by the browser is tried first. When it is
missing or failed, exactly one IP geolocation lookup is made for the
visitor's remote address. When both fail the visitor stays unlocated and
the caller keeps its default map position.

Usage:

	resolver := location.NewResolver(locator)
	res, err := resolver.Resolve(ctx, location.DeniedReport("user denied"), remoteAddr)
	if err != nil {
	    // stay on the default position
	}
	fmt.Println(res.Coordinate, res.Source)
*/
package location
