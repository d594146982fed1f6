// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/models"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

const (
	leafletCSS = leafletOrigin + "/leaflet@1.9.4/dist/leaflet.css"
	leafletJS  = leafletOrigin + "/leaflet@1.9.4/dist/leaflet.js"
	apiBase    = "/api/v1"
	pageTitle  = "GuestMap"
)

var (
	indexOnce sync.Once
	indexTmpl *template.Template
	indexErr  error
)

func indexTemplate() (*template.Template, error) {
	indexOnce.Do(func() {
		indexTmpl, indexErr = template.ParseFS(templateFS, "templates/index.html.tmpl")
	})
	return indexTmpl, indexErr
}

// pageData feeds the map page template.
type pageData struct {
	Title      string
	Nonce      string
	APIBase    string
	LeafletCSS string
	LeafletJS  string
}

// Index renders the map page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	tmpl, err := indexTemplate()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to parse index template")
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		Title:      pageTitle,
		Nonce:      CSPNonceFromContext(r.Context()),
		APIBase:    apiBase,
		LeafletCSS: leafletCSS,
		LeafletJS:  leafletJS,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render index template")
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

// PageConfig is what the map page needs before opening a view.
type PageConfig struct {
	DefaultCenter         models.Coordinate `json:"default_center"`
	DefaultZoom           int               `json:"default_zoom"`
	LocatedZoom           int               `json:"located_zoom"`
	TileURL               string            `json:"tile_url"`
	Attribution           string            `json:"attribution"`
	AllowMultipleMessages bool              `json:"allow_multiple_messages"`
	SentDelayMs           int64             `json:"sent_delay_ms"`
}

// MapConfig returns the map defaults and tile provider.
func (h *Handler) MapConfig(w http.ResponseWriter, r *http.Request) {
	v := h.config.View
	NewResponseWriter(w, r).Success(PageConfig{
		DefaultCenter:         models.Coordinate{Lat: v.DefaultLat, Lng: v.DefaultLng},
		DefaultZoom:           v.DefaultZoom,
		LocatedZoom:           v.LocatedZoom,
		TileURL:               h.config.Map.TileURL,
		Attribution:           h.config.Map.Attribution,
		AllowMultipleMessages: v.AllowMultipleMessages,
		SentDelayMs:           v.SentDelay.Milliseconds(),
	})
}
