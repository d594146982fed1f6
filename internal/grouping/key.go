// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package grouping

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// keyDecimals is the number of decimals kept for each coordinate in a key.
const keyDecimals = 3

// RoundingKey returns the grouping key for a coordinate.
func RoundingKey(lat, lng float64) string {
	return toFixed(lat) + toFixed(lng)
}

var thousand = big.NewFloat(1000)

// toFixed formats v with three decimals. strconv rounds exact ties to even;
// ties are detected on the exact binary value and rounded away from zero
// instead.
func toFixed(v float64) string {
	s := strconv.FormatFloat(v, 'f', keyDecimals, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, thousand)
	if scaled.IsInt() {
		return s
	}
	twice := new(big.Float).Mul(scaled, big.NewFloat(2))
	if !twice.IsInt() {
		return s
	}

	n, _ := scaled.Int(nil)
	n.Add(n, big.NewInt(1))

	digits := n.String()
	if pad := keyDecimals + 1 - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	cut := len(digits) - keyDecimals
	out := digits[:cut] + "." + digits[cut:]
	if v < 0 {
		out = "-" + out
	}
	return out
}
