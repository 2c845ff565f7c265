// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package models defines the JSON request and response shapes of the
// Moodtune HTTP API. The browser frontend consumes these directly, so the
// field names are part of the public contract.
package models

// Recommendation is a single recommended music video.
type Recommendation struct {
	SongName            string  `json:"song_name"`
	Artist              string  `json:"artist"`
	ChannelTitle        string  `json:"channel_title"`
	Language            string  `json:"language"`
	Emotion             string  `json:"emotion"`
	Genre               string  `json:"genre"`
	YouTubeID           string  `json:"youtube_id"`
	YouTubeURL          string  `json:"youtube_url"`
	EmbedURL            string  `json:"embed_url"`
	Thumbnail           string  `json:"thumbnail"`
	ViewCount           int64   `json:"view_count"`
	LikeCount           int64   `json:"like_count"`
	RecommendationScore float64 `json:"recommendation_score"`
}

// DetectRequest is the body of POST /api/detect-emotion.
type DetectRequest struct {
	ImageData string `json:"image_data" validate:"required"`
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Emotion    string  `json:"emotion" validate:"required"`
	Confidence float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Language   string  `json:"language" validate:"omitempty,language"`
	TopN       int     `json:"top_n" validate:"omitempty,gte=1"`
}

// DetectAndRecommendRequest is the body of POST /api/detect-and-recommend.
type DetectAndRecommendRequest struct {
	ImageData string `json:"image_data" validate:"required"`
	Language  string `json:"language" validate:"omitempty,language"`
	TopN      int    `json:"top_n" validate:"omitempty,gte=1"`
}

// DetectResponse is the success body of POST /api/detect-emotion.
type DetectResponse struct {
	Success      bool               `json:"success"`
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	AllEmotions  map[string]float64 `json:"all_emotions"`
	FaceDetected bool               `json:"face_detected"`
}

// RecommendResponse is the success body of POST /api/recommend.
type RecommendResponse struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	Count           int              `json:"count"`
}

// DetectAndRecommendResponse is the success body of POST /api/detect-and-recommend.
type DetectAndRecommendResponse struct {
	Success         bool               `json:"success"`
	Emotion         string             `json:"emotion"`
	Confidence      float64            `json:"confidence"`
	AllEmotions     map[string]float64 `json:"all_emotions"`
	Recommendations []Recommendation   `json:"recommendations"`
	Count           int                `json:"count"`
}

// LanguagesResponse is the body of GET /api/languages.
type LanguagesResponse struct {
	Success   bool     `json:"success"`
	Languages []string `json:"languages"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Success           bool `json:"success"`
	YouTubeConfigured bool `json:"youtube_configured"`
	EmotionConfigured bool `json:"emotion_configured"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

// Stats reports live process counters since startup.
type Stats struct {
	RequestsByEmotion map[string]int64 `json:"requests_by_emotion"`
	CacheHits         int64            `json:"cache_hits"`
	CacheMisses       int64            `json:"cache_misses"`
	CacheHitRate      float64          `json:"cache_hit_rate"`
	CachedKeys        int64            `json:"cached_keys"`
	Languages         []string         `json:"languages"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	ErrorType    string `json:"error_type,omitempty"`
	FaceDetected *bool  `json:"face_detected,omitempty"`
}

// Error type strings carried in ErrorResponse.ErrorType. The browser only
// branches on configuration errors and face detection.
const (
	ErrTypeValidation    = "ValidationError"
	ErrTypeDecode        = "DecodeError"
	ErrTypeNoFace        = "NoFaceDetected"
	ErrTypeConfiguration = "ConfigurationError"
	ErrTypeUpstream      = "UpstreamError"
	ErrTypeInternal      = "InternalError"
)
