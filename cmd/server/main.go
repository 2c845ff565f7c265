// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package main is the entry point for the Moodtune server.
//
// Moodtune recommends YouTube music videos matched to the emotion detected
// on a face image. Detection is delegated to an external inference service;
// recommendations come from the YouTube Data API v3 with multi-language
// diversity.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from config file and environment (Koanf v2)
//  2. Emotion Client: HTTP client for the inference service, with circuit breaker
//  3. YouTube Client: Data API v3 client with TTL cache, QPS limit, and circuit breaker
//  4. Recommendation Engine: emotion-to-mood mapping and ranking
//  5. HTTP Server: chi router with CORS, rate limiting, and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
//
// The integrations are keyed by environment:
//   - YOUTUBE_API_KEY: YouTube Data API v3 key (required for recommendations)
//   - EMOTION_SERVICE_URL: inference endpoint (required for detection)
//   - EMOTION_SERVICE_TOKEN: optional bearer token for the inference service
//
// The server starts without them and reports their absence via /api/health;
// the affected endpoints return ConfigurationError until keys are set.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits for in-flight requests to complete
// (10s timeout by default).
//
// # Example Usage
//
//	export YOUTUBE_API_KEY=your-api-key
//	export EMOTION_SERVICE_URL=https://inference.example/models/fer
//	./moodtune
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/moodtune/internal/api"
	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/emotion"
	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/recommend"
	"github.com/tomtom215/moodtune/internal/youtube"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().Msg("Starting Moodtune")
	logging.Info().
		Bool("youtube_configured", cfg.YouTubeConfigured()).
		Bool("emotion_configured", cfg.Emotion.ServiceURL != "").
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	if !cfg.YouTubeConfigured() {
		logging.Warn().Msg("YOUTUBE_API_KEY not set - recommendation endpoints will return ConfigurationError")
	}
	if cfg.Emotion.ServiceURL == "" {
		logging.Warn().Msg("EMOTION_SERVICE_URL not set - detection endpoints will return ConfigurationError")
	}

	detector := emotion.NewClient(cfg.Emotion)
	ytClient := youtube.NewClient(cfg.YouTube)
	engine := recommend.NewEngine(ytClient, cfg.Recommend, cfg.YouTube.MaxPerLanguage)

	server := api.NewServer(cfg, detector, ytClient, engine)
	router := api.NewRouter(cfg, server)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Serve in the background; the main goroutine waits for a signal.
	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logging.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := httpServer.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}

	logging.Info().Msg("Server stopped")
}
