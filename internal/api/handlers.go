// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package api implements the Moodtune HTTP API: emotion detection, music
// recommendation, and the supporting health, stats, and metrics endpoints.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/moodtune/internal/cache"
	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/emotion"
	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/models"
	"github.com/tomtom215/moodtune/internal/recommend"
	"github.com/tomtom215/moodtune/internal/validation"
	"github.com/tomtom215/moodtune/internal/youtube"
)

// maxRecommendBodySize bounds the recommendation request body; these carry
// no image data.
const maxRecommendBodySize = 64 * 1024 // 64KB

// cacheStatsProvider is implemented by the concrete YouTube client; test
// stubs may skip it, in which case /api/stats reports zero cache counters.
type cacheStatsProvider interface {
	CacheStats() cache.Stats
	CacheHitRate() float64
}

// Server holds the handler dependencies.
type Server struct {
	cfg      *config.Config
	detector emotion.Detector
	youtube  youtube.ClientInterface
	engine   *recommend.Engine
}

// NewServer creates the API server.
func NewServer(cfg *config.Config, detector emotion.Detector, yt youtube.ClientInterface, engine *recommend.Engine) *Server {
	return &Server{
		cfg:      cfg,
		detector: detector,
		youtube:  yt,
		engine:   engine,
	}
}

// maxImageBodySize is the request body cap for image-carrying endpoints:
// base64 inflates the image by 4/3, plus JSON framing headroom.
func (s *Server) maxImageBodySize() int64 {
	return s.cfg.Emotion.MaxImageBytes*4/3 + 64*1024
}

// handleHealth reports whether the upstream integrations are configured.
// The process is healthy even when they are not; the recommendation
// endpoints return ConfigurationError until keys are set.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Success:           true,
		YouTubeConfigured: s.youtube.Configured(),
		EmotionConfigured: s.detector.Configured(),
	})
}

// handleLive is the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleReady is the readiness probe. Ready as soon as the HTTP stack
// serves; integration status is reported by /api/health.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDetectEmotion classifies the emotion on a face image.
//
//	POST /api/detect-emotion
//	{"image_data": "<base64 or data URL>"}
func (s *Server) handleDetectEmotion(w http.ResponseWriter, r *http.Request) {
	var req models.DetectRequest
	if err := decodeJSONBody(w, r, s.maxImageBodySize(), &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}

	result, err := s.detector.Detect(r.Context(), req.ImageData)
	if err != nil {
		s.respondDetectError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.DetectResponse{
		Success:      true,
		Emotion:      result.Emotion,
		Confidence:   result.Confidence,
		AllEmotions:  result.AllEmotions,
		FaceDetected: true,
	})
}

// handleRecommend returns music recommendations for a known emotion.
//
//	POST /api/recommend
//	{"emotion": "Happy", "confidence": 0.85, "language": "Hindi", "top_n": 5}
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := decodeJSONBody(w, r, maxRecommendBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("emotion", sanitizeLogValue(req.Emotion)).
		Str("language", sanitizeLogValue(req.Language)).
		Int("top_n", req.TopN).
		Msg("recommendation request")

	recommendations, err := s.recommend(r.Context(), recommend.Request{
		Emotion:    req.Emotion,
		Confidence: req.Confidence,
		Language:   req.Language,
		TopN:       req.TopN,
	})
	if err != nil {
		s.respondRecommendError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.RecommendResponse{
		Success:         true,
		Recommendations: recommendations,
		Count:           len(recommendations),
	})
}

// handleDetectAndRecommend runs detection and recommendation in one call,
// saving the frontend a round trip.
//
//	POST /api/detect-and-recommend
//	{"image_data": "<base64>", "language": "Hindi", "top_n": 5}
func (s *Server) handleDetectAndRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.DetectAndRecommendRequest
	if err := decodeJSONBody(w, r, s.maxImageBodySize(), &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrTypeValidation)
		return
	}

	result, err := s.detector.Detect(r.Context(), req.ImageData)
	if err != nil {
		s.respondDetectError(w, r, err)
		return
	}

	recommendations, err := s.recommend(r.Context(), recommend.Request{
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
		Language:   req.Language,
		TopN:       req.TopN,
	})
	if err != nil {
		s.respondRecommendError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.DetectAndRecommendResponse{
		Success:         true,
		Emotion:         result.Emotion,
		Confidence:      result.Confidence,
		AllEmotions:     result.AllEmotions,
		Recommendations: recommendations,
		Count:           len(recommendations),
	})
}

// handleLanguages lists the supported recommendation languages.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.LanguagesResponse{
		Success:   true,
		Languages: s.engine.Languages(),
	})
}

// handleStats reports live process counters: per-emotion request counts and
// search cache efficiency.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := models.Stats{
		RequestsByEmotion: s.engine.EmotionCounts(),
		Languages:         s.engine.Languages(),
	}

	if provider, ok := s.youtube.(cacheStatsProvider); ok {
		cacheStats := provider.CacheStats()
		stats.CacheHits = cacheStats.Hits
		stats.CacheMisses = cacheStats.Misses
		stats.CacheHitRate = provider.CacheHitRate()
		stats.CachedKeys = cacheStats.TotalKeys
	}

	respondJSON(w, http.StatusOK, models.StatsResponse{
		Success: true,
		Stats:   stats,
	})
}

// recommend guards the engine call behind the YouTube configuration check
// so unconfigured deployments fail fast with a clear message.
func (s *Server) recommend(ctx context.Context, req recommend.Request) ([]models.Recommendation, error) {
	if !s.youtube.Configured() {
		return nil, youtube.ErrNotConfigured
	}
	return s.engine.Recommend(ctx, req)
}

// respondDetectError maps detection failures to HTTP responses.
func (s *Server) respondDetectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, emotion.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable,
			"Emotion detection service not configured. Please set EMOTION_SERVICE_URL.",
			models.ErrTypeConfiguration)
	case errors.Is(err, emotion.ErrNoFace):
		respondNoFace(w)
	case errors.Is(err, emotion.ErrImageTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge,
			"Image exceeds maximum allowed size", models.ErrTypeDecode)
	case errors.Is(err, emotion.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, "Could not decode image", models.ErrTypeDecode)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Emotion detection failed")
		respondError(w, http.StatusBadGateway,
			"Emotion detection failed", models.ErrTypeUpstream)
	}
}

// respondRecommendError maps recommendation failures to HTTP responses.
func (s *Server) respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, youtube.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable,
			"YouTube API key not configured. Please set YOUTUBE_API_KEY.",
			models.ErrTypeConfiguration)
	case errors.Is(err, youtube.ErrRateLimited):
		respondError(w, http.StatusServiceUnavailable,
			"YouTube API rate limit exceeded, try again later", models.ErrTypeUpstream)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout,
			"Upstream request timed out", models.ErrTypeUpstream)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
		respondError(w, http.StatusBadGateway,
			"Failed to fetch recommendations", models.ErrTypeUpstream)
	}
}
