// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

/*
Package grouping deduplicates messages that were left at (nearly) the same
place so the map shows one marker per spot.

The key for a message is its latitude and longitude each written with exactly
three decimals and concatenated without a separator:

	RoundingKey(51.50512, -0.0901) == "51.505-0.090"

Three decimals is roughly 110 m of latitude. The first message seen for a key
becomes the group's representative (the marker); later ones go to its
overflow (listed in the popup). Group is pure and preserves first-seen order.

Formatting follows JavaScript's Number.prototype.toFixed, so exact binary
ties such as 1.0625 round away from zero ("1.063"). NaN coordinates produce
the fragment "NaN" and therefore all share a group.
*/
package grouping
