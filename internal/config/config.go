// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package config provides centralized configuration for all Moodtune
// components, loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, optional YAML config file, built-in
// defaults.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Thread Safety: Config is immutable after Load() and safe for concurrent
// read access from multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	YouTube   YouTubeConfig   `koanf:"youtube"`
	Emotion   EmotionConfig   `koanf:"emotion"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// YouTubeConfig holds YouTube Data API v3 settings.
//
// APIKey is required for recommendations. A missing key does not prevent
// startup: recommendation endpoints return a ConfigurationError (503)
// until the key is provided.
type YouTubeConfig struct {
	APIKey string `koanf:"api_key"`

	// BaseURL is the YouTube Data API root. Overridable for testing.
	BaseURL string `koanf:"base_url"`

	Timeout time.Duration `koanf:"timeout"`

	// MaxPerLanguage caps search results fetched per language (YouTube
	// caps a single search.list page at 50).
	MaxPerLanguage int `koanf:"max_per_language"`

	// CacheTTL is how long search results are served from memory before
	// hitting the API again.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RequestsPerSecond limits outbound API call rate.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// EmotionConfig holds emotion inference service settings.
//
// The service speaks the image-classification contract: POST raw image
// bytes, receive a JSON array of {label, score} predictions.
type EmotionConfig struct {
	// ServiceURL is the inference endpoint. Required for detection.
	ServiceURL string `koanf:"service_url"`

	// Token is an optional bearer token for the inference service.
	Token string `koanf:"token"`

	Timeout time.Duration `koanf:"timeout"`

	// MaxImageBytes bounds decoded upload size (default 5 MiB).
	MaxImageBytes int64 `koanf:"max_image_bytes"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultTopN is the result count when the request omits top_n.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN bounds the requestable result count.
	MaxTopN int `koanf:"max_top_n"`

	// MinLanguages is the language diversity quota: responses span at
	// least this many languages when the candidate pool allows.
	MinLanguages int `koanf:"min_languages"`

	// PreferredQuota is the minimum result count in the requested
	// language when one is given and candidates exist.
	PreferredQuota int `koanf:"preferred_quota"`

	// ExtraLanguages is how many non-requested languages are searched
	// alongside a requested language for diversity.
	ExtraLanguages int `koanf:"extra_languages"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// YouTubeConfigured reports whether a YouTube API key is present.
func (c *Config) YouTubeConfigured() bool {
	return c.YouTube.APIKey != ""
}

// Validate checks the configuration for malformed values. Missing optional
// integrations (YouTube key, emotion service) are not errors here; the API
// layer degrades those endpoints instead.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.YouTube.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.YouTube.BaseURL); err != nil {
			return fmt.Errorf("youtube.base_url is not a valid URL: %w", err)
		}
	}
	if c.Emotion.ServiceURL != "" {
		if _, err := url.ParseRequestURI(c.Emotion.ServiceURL); err != nil {
			return fmt.Errorf("emotion.service_url is not a valid URL: %w", err)
		}
	}
	if c.YouTube.MaxPerLanguage < 1 || c.YouTube.MaxPerLanguage > 50 {
		return fmt.Errorf("youtube.max_per_language must be 1-50, got %d", c.YouTube.MaxPerLanguage)
	}
	if c.YouTube.CacheTTL < 0 {
		return fmt.Errorf("youtube.cache_ttl must not be negative")
	}
	// A zero-rate limiter blocks every request forever.
	if c.YouTube.RequestsPerSecond <= 0 {
		return fmt.Errorf("youtube.requests_per_second must be positive, got %g", c.YouTube.RequestsPerSecond)
	}
	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("recommend.default_top_n must be positive, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("recommend.max_top_n (%d) must be >= default_top_n (%d)",
			c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Recommend.MinLanguages < 1 {
		return fmt.Errorf("recommend.min_languages must be positive, got %d", c.Recommend.MinLanguages)
	}
	if c.Emotion.MaxImageBytes < 1 {
		return fmt.Errorf("emotion.max_image_bytes must be positive, got %d", c.Emotion.MaxImageBytes)
	}
	return nil
}
