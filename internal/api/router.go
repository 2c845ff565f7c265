// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package api

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/middleware"
	"github.com/tomtom215/moodtune/internal/models"
)

// NewRouter builds the chi router with the full middleware chain:
// request IDs, panic recovery, security headers, CORS, per-IP rate
// limiting, and Prometheus instrumentation.
func NewRouter(cfg *config.Config, server *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(recoverPanics)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(httprate.LimitByIP(cfg.Server.RateLimitReqs, cfg.Server.RateLimitWindow))

		r.Get("/health", server.handleHealth)
		r.Get("/health/live", server.handleLive)
		r.Get("/health/ready", server.handleReady)
		r.Get("/languages", server.handleLanguages)
		r.Get("/stats", server.handleStats)

		r.Post("/detect-emotion", server.handleDetectEmotion)
		r.Post("/recommend", server.handleRecommend)
		r.Post("/detect-and-recommend", server.handleDetectAndRecommend)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint not found", models.ErrTypeValidation)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed", models.ErrTypeValidation)
	})

	return r
}

// recoverPanics converts handler panics into JSON 500 responses so the
// error body contract holds even for bugs.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Handler panic recovered")
				respondError(w, http.StatusInternalServerError,
					"Internal server error", models.ErrTypeInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
