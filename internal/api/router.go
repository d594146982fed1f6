// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/guestmap/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	tileURL       string
}

// NewRouter creates a router for handler, taking CORS, rate limit and tile
// settings from the handler's configuration.
func NewRouter(handler *Handler) *Router {
	router := &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(nil),
	}
	if handler.config != nil {
		router.chiMiddleware = NewChiMiddlewareFromConfig(handler.config.Security)
		router.tileURL = handler.config.Map.TileURL
	}
	return router
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.With(
		router.chiMiddleware.RateLimit(),
		PageSecurityHeaders(router.tileURL),
		middleware.Compression,
	).Get("/", router.handler.Index)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.With(middleware.Compression).Get("/config", router.handler.MapConfig)

		r.Route("/views", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitOpen)).Post("/", router.handler.OpenView)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", router.handler.GetView)
				r.Delete("/", router.handler.CloseView)
				r.Post("/location", router.handler.ReportLocation)
				r.With(router.chiMiddleware.RateLimitCustom(RateLimitDraft)).Put("/draft", router.handler.UpdateDraft)
				r.With(router.chiMiddleware.RateLimitCustom(RateLimitSubmit)).Post("/submit", router.handler.Submit)
				r.Post("/start-over", router.handler.StartOver)
				r.Post("/reload", router.handler.Reload)
				r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).Get("/ws", router.handler.ViewStream)
			})
		})
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}
