// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/guestmap/internal/grouping"
)

type locateView struct {
	Address   string  `json:"address" yaml:"address"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Key       string  `json:"key" yaml:"key"`
}

func newLocateCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "locate [ip]",
		Short: "Resolve an IP address through the geoip fallback (this host when omitted).",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			if deps.Locator == nil {
				return errors.New("geoip locator is not configured")
			}

			var addr string
			if len(args) == 1 {
				addr = args[0]
			}

			coord, err := deps.Locator.Locate(cmd.Context(), addr)
			if err != nil {
				return fmt.Errorf("locate %q: %w", addr, err)
			}

			view := locateView{
				Address:   addr,
				Latitude:  coord.Lat,
				Longitude: coord.Lng,
				Key:       grouping.RoundingKey(coord.Lat, coord.Lng),
			}
			if view.Address == "" {
				view.Address = "self"
			}
			return write(cmd.OutOrStdout(), format, view, func() string {
				return renderTable(
					[]string{"ADDRESS", "LATITUDE", "LONGITUDE", "KEY"},
					[][]string{{
						view.Address,
						strconv.FormatFloat(view.Latitude, 'f', -1, 64),
						strconv.FormatFloat(view.Longitude, 'f', -1, 64),
						view.Key,
					}},
				)
			})
		},
	}
}
