// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// String formats the coordinate for logs.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.5f, %.5f)", c.Lat, c.Lng)
}

// degrees decodes a coordinate component given either as a JSON number or
// as a numeric string.
type degrees float64

func (d *degrees) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parse coordinate %q: %w", text, err)
		}
		*d = degrees(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*d = degrees(value)
		return nil
	}

	return fmt.Errorf("coordinate must be a string or number")
}
