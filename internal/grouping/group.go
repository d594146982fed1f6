// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package grouping

import "github.com/tomtom215/guestmap/internal/models"

// Group buckets messages by RoundingKey. Groups appear in the order their
// key was first seen; every input message lands in exactly one group.
func Group(messages []models.Message) []models.GroupedMessage {
	index := make(map[string]int, len(messages))
	groups := make([]models.GroupedMessage, 0, len(messages))

	for _, m := range messages {
		key := RoundingKey(m.Latitude, m.Longitude)
		if i, ok := index[key]; ok {
			groups[i].Overflow = append(groups[i].Overflow, m)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, models.GroupedMessage{
			Key:            key,
			Representative: m,
			Overflow:       []models.Message{},
		})
	}

	return groups
}

// PopupEntries renders the overflow of a group as "name: message" lines.
// The representative is not included; its marker is the group itself.
func PopupEntries(g models.GroupedMessage) []string {
	entries := make([]string, len(g.Overflow))
	for i, m := range g.Overflow {
		entries[i] = m.Name + ": " + m.Message
	}
	return entries
}

// Count returns the number of messages across all groups.
func Count(groups []models.GroupedMessage) int {
	total := 0
	for _, g := range groups {
		total += g.Size()
	}
	return total
}
