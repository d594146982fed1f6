// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/guestmap/internal/grouping"
	"github.com/tomtom215/guestmap/internal/models"
)

type groupView struct {
	Key       string   `json:"key" yaml:"key"`
	Latitude  float64  `json:"latitude" yaml:"latitude"`
	Longitude float64  `json:"longitude" yaml:"longitude"`
	Count     int      `json:"count" yaml:"count"`
	Name      string   `json:"name" yaml:"name"`
	Message   string   `json:"message" yaml:"message"`
	Overflow  []string `json:"overflow" yaml:"overflow"`
}

type messagesView struct {
	Total  int         `json:"total" yaml:"total"`
	Groups []groupView `json:"groups" yaml:"groups"`
}

func newMessagesCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	var minSize int

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List messages grouped by rounded location, as markers on the map.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := flags.format()
			if err != nil {
				return err
			}
			if minSize < 1 {
				return &usageError{err: errors.New("--min-size must be at least 1")}
			}
			if deps.Store == nil {
				return errors.New("message store is not configured")
			}

			messages, err := deps.Store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list messages: %w", err)
			}

			view := buildMessagesView(grouping.Group(messages), minSize)
			return write(cmd.OutOrStdout(), format, view, func() string {
				return messagesTable(view)
			})
		},
	}
	cmd.Flags().IntVar(&minSize, "min-size", 1, "Only show groups holding at least this many messages.")
	return cmd
}

func buildMessagesView(groups []models.GroupedMessage, minSize int) messagesView {
	view := messagesView{Total: grouping.Count(groups), Groups: []groupView{}}
	for _, g := range groups {
		if g.Size() < minSize {
			continue
		}
		view.Groups = append(view.Groups, groupView{
			Key:       g.Key,
			Latitude:  g.Representative.Latitude,
			Longitude: g.Representative.Longitude,
			Count:     g.Size(),
			Name:      g.Representative.Name,
			Message:   g.Representative.Message,
			Overflow:  grouping.PopupEntries(g),
		})
	}
	return view
}

func messagesTable(view messagesView) string {
	rows := make([][]string, 0, len(view.Groups))
	for _, g := range view.Groups {
		rows = append(rows, []string{g.Key, strconv.Itoa(g.Count), g.Name, oneLine(g.Message)})
		for _, entry := range g.Overflow {
			rows = append(rows, []string{"", "", "+", oneLine(entry)})
		}
	}
	return renderTable([]string{"KEY", "COUNT", "NAME", "MESSAGE"}, rows) +
		fmt.Sprintf("\n%d messages in %d groups", view.Total, len(view.Groups))
}

// oneLine keeps multi-line messages on a single table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
