// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package cli

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type configView struct {
	Environment           string   `json:"environment" yaml:"environment"`
	Listen                string   `json:"listen" yaml:"listen"`
	MessagesURL           string   `json:"messages_url" yaml:"messages_url"`
	GeoIPProvider         string   `json:"geoip_provider" yaml:"geoip_provider"`
	GeoIPURL              string   `json:"geoip_url,omitempty" yaml:"geoip_url,omitempty"`
	DefaultCenter         []string `json:"default_center" yaml:"default_center"`
	DefaultZoom           int      `json:"default_zoom" yaml:"default_zoom"`
	LocatedZoom           int      `json:"located_zoom" yaml:"located_zoom"`
	SentDelay             string   `json:"sent_delay" yaml:"sent_delay"`
	SessionTTL            string   `json:"session_ttl" yaml:"session_ttl"`
	MaxSessions           int      `json:"max_sessions" yaml:"max_sessions"`
	AllowMultipleMessages bool     `json:"allow_multiple_messages" yaml:"allow_multiple_messages"`
	TileURL               string   `json:"tile_url" yaml:"tile_url"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins"`
	RateLimitDisabled     bool     `json:"rate_limit_disabled" yaml:"rate_limit_disabled"`
	LogLevel              string   `json:"log_level" yaml:"log_level"`
}

func newConfigCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the server configuration resolved from defaults, file and environment.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			cfg := deps.Config
			if cfg == nil {
				return errors.New("configuration is not loaded")
			}

			view := configView{
				Environment:   cfg.Server.Environment,
				Listen:        net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
				MessagesURL:   cfg.Messages.BaseURL,
				GeoIPProvider: cfg.GeoIP.Provider,
				GeoIPURL:      cfg.GeoIP.URL,
				DefaultCenter: []string{
					strconv.FormatFloat(cfg.View.DefaultLat, 'f', -1, 64),
					strconv.FormatFloat(cfg.View.DefaultLng, 'f', -1, 64),
				},
				DefaultZoom:           cfg.View.DefaultZoom,
				LocatedZoom:           cfg.View.LocatedZoom,
				SentDelay:             cfg.View.SentDelay.String(),
				SessionTTL:            cfg.View.SessionTTL.String(),
				MaxSessions:           cfg.View.MaxSessions,
				AllowMultipleMessages: cfg.View.AllowMultipleMessages,
				TileURL:               cfg.Map.TileURL,
				CORSOrigins:           cfg.Security.CORSOrigins,
				RateLimitDisabled:     cfg.Security.RateLimitDisabled,
				LogLevel:              cfg.Logging.Level,
			}
			return write(cmd.OutOrStdout(), format, view, func() string {
				return renderTable([]string{"KEY", "VALUE"}, [][]string{
					{"environment", view.Environment},
					{"listen", view.Listen},
					{"messages_url", view.MessagesURL},
					{"geoip_provider", view.GeoIPProvider},
					{"default_center", strings.Join(view.DefaultCenter, ",")},
					{"default_zoom", strconv.Itoa(view.DefaultZoom)},
					{"located_zoom", strconv.Itoa(view.LocatedZoom)},
					{"sent_delay", view.SentDelay},
					{"session_ttl", view.SessionTTL},
					{"max_sessions", strconv.Itoa(view.MaxSessions)},
					{"allow_multiple_messages", strconv.FormatBool(view.AllowMultipleMessages)},
					{"tile_url", view.TileURL},
					{"cors_origins", strings.Join(view.CORSOrigins, ",")},
					{"rate_limit_disabled", strconv.FormatBool(view.RateLimitDisabled)},
					{"log_level", view.LogLevel},
				})
			})
		},
	}
}
