// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/emotion"
	"github.com/tomtom215/moodtune/internal/models"
	"github.com/tomtom215/moodtune/internal/recommend"
	"github.com/tomtom215/moodtune/internal/youtube"
)

// stubDetector satisfies emotion.Detector.
type stubDetector struct {
	configured bool
	result     *emotion.Result
	err        error
}

func (d *stubDetector) Configured() bool { return d.configured }

func (d *stubDetector) Detect(_ context.Context, _ string) (*emotion.Result, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.result, nil
}

// stubYouTube satisfies youtube.ClientInterface.
type stubYouTube struct {
	configured bool
	videos     []youtube.Video
	err        error
}

func (y *stubYouTube) Configured() bool { return y.configured }

func (y *stubYouTube) SearchMusicVideos(_ context.Context, _, _ string, _ int) ([]youtube.Video, error) {
	return y.videos, y.err
}

func (y *stubYouTube) VideoDetails(_ context.Context, _ []string) ([]youtube.Video, error) {
	return y.videos, y.err
}

func (y *stubYouTube) SearchMultilingual(_ context.Context, _ string, _ []string, _ int) ([]youtube.Video, error) {
	return y.videos, y.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
		YouTube: config.YouTubeConfig{MaxPerLanguage: 10},
		Emotion: config.EmotionConfig{MaxImageBytes: 5 << 20},
		Recommend: config.RecommendConfig{
			DefaultTopN:    5,
			MaxTopN:        50,
			MinLanguages:   3,
			PreferredQuota: 2,
			ExtraLanguages: 2,
		},
	}
}

func testVideos() []youtube.Video {
	return []youtube.Video{
		{
			ID: "v1", Title: "Song One", ChannelTitle: "Artist One - Topic",
			Language: "English", ViewCount: 5000,
			WatchURL: "https://www.youtube.com/watch?v=v1",
			EmbedURL: "https://www.youtube.com/embed/v1",
		},
		{
			ID: "v2", Title: "Song Two", ChannelTitle: "Artist Two",
			Language: "Hindi", ViewCount: 3000,
			WatchURL: "https://www.youtube.com/watch?v=v2",
			EmbedURL: "https://www.youtube.com/embed/v2",
		},
		{
			ID: "v3", Title: "Song Three", ChannelTitle: "Artist Three",
			Language: "Korean", ViewCount: 1000,
			WatchURL: "https://www.youtube.com/watch?v=v3",
			EmbedURL: "https://www.youtube.com/embed/v3",
		},
	}
}

// newTestRouter wires stubs into a full router.
func newTestRouter(detector *stubDetector, yt *stubYouTube) http.Handler {
	cfg := testConfig()
	engine := recommend.NewEngine(yt, cfg.Recommend, cfg.YouTube.MaxPerLanguage)
	return NewRouter(cfg, NewServer(cfg, detector, yt, engine))
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestRouter(&stubDetector{configured: true}, &stubYouTube{configured: false})

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.HealthResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.YouTubeConfigured {
		t.Error("expected youtube_configured false")
	}
	if !resp.EmotionConfigured {
		t.Error("expected emotion_configured true")
	}
}

func TestLanguages(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodGet, "/api/languages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.LanguagesResponse
	decodeBody(t, rec, &resp)
	if len(resp.Languages) != 7 {
		t.Errorf("expected 7 languages, got %d", len(resp.Languages))
	}
	if resp.Languages[0] != "English" {
		t.Errorf("expected English first, got %q", resp.Languages[0])
	}
}

func TestRecommend(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{configured: true, videos: testVideos()})

	rec := doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{
		Emotion:    "Happy",
		Confidence: 0.9,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.RecommendResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.Count != 3 || len(resp.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got count=%d len=%d",
			resp.Count, len(resp.Recommendations))
	}

	top := resp.Recommendations[0]
	if top.YouTubeID != "v1" {
		t.Errorf("expected most-viewed video first, got %q", top.YouTubeID)
	}
	if top.Artist != "Artist One" {
		t.Errorf("expected Topic suffix stripped, got %q", top.Artist)
	}
	if top.Emotion != "Happy" {
		t.Errorf("expected emotion annotation, got %q", top.Emotion)
	}
}

func TestRecommendValidation(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{configured: true})

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing emotion", map[string]interface{}{}},
		{"bad language", map[string]interface{}{"emotion": "Happy", "language": "French"}},
		{"bad confidence", map[string]interface{}{"emotion": "Happy", "confidence": 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/recommend", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var resp models.ErrorResponse
			decodeBody(t, rec, &resp)
			if resp.Success {
				t.Error("expected success false")
			}
			if resp.ErrorType != models.ErrTypeValidation {
				t.Errorf("expected ValidationError, got %q", resp.ErrorType)
			}
		})
	}
}

func TestRecommendNotConfigured(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{configured: false})

	rec := doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{
		Emotion: "Happy",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.ErrorType != models.ErrTypeConfiguration {
		t.Errorf("expected ConfigurationError, got %q", resp.ErrorType)
	}
}

func TestRecommendRateLimited(t *testing.T) {
	handler := newTestRouter(&stubDetector{},
		&stubYouTube{configured: true, err: youtube.ErrRateLimited})

	rec := doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{
		Emotion: "Happy",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.ErrorType != models.ErrTypeUpstream {
		t.Errorf("expected UpstreamError, got %q", resp.ErrorType)
	}
}

func TestDetectEmotion(t *testing.T) {
	detector := &stubDetector{
		configured: true,
		result: &emotion.Result{
			Emotion:      "Happy",
			Confidence:   0.92,
			AllEmotions:  map[string]float64{"Happy": 0.92, "Neutral": 0.08},
			FaceDetected: true,
		},
	}
	handler := newTestRouter(detector, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodPost, "/api/detect-emotion", models.DetectRequest{
		ImageData: "aGVsbG8=",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DetectResponse
	decodeBody(t, rec, &resp)
	if resp.Emotion != "Happy" || resp.Confidence != 0.92 {
		t.Errorf("unexpected detection: %+v", resp)
	}
	if !resp.FaceDetected {
		t.Error("expected face_detected true")
	}
	if len(resp.AllEmotions) != 2 {
		t.Errorf("expected 2 emotions, got %d", len(resp.AllEmotions))
	}
}

func TestDetectEmotionNoFace(t *testing.T) {
	handler := newTestRouter(&stubDetector{configured: true, err: emotion.ErrNoFace}, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodPost, "/api/detect-emotion", models.DetectRequest{
		ImageData: "aGVsbG8=",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.ErrorType != models.ErrTypeNoFace {
		t.Errorf("expected NoFaceDetected, got %q", resp.ErrorType)
	}
	if resp.FaceDetected == nil || *resp.FaceDetected {
		t.Error("expected face_detected false in body")
	}
}

func TestDetectEmotionNotConfigured(t *testing.T) {
	handler := newTestRouter(&stubDetector{err: emotion.ErrNotConfigured}, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodPost, "/api/detect-emotion", models.DetectRequest{
		ImageData: "aGVsbG8=",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestDetectAndRecommend(t *testing.T) {
	detector := &stubDetector{
		configured: true,
		result: &emotion.Result{
			Emotion:      "Sad",
			Confidence:   0.75,
			AllEmotions:  map[string]float64{"Sad": 0.75},
			FaceDetected: true,
		},
	}
	handler := newTestRouter(detector, &stubYouTube{configured: true, videos: testVideos()})

	rec := doJSON(t, handler, http.MethodPost, "/api/detect-and-recommend",
		models.DetectAndRecommendRequest{ImageData: "aGVsbG8=", TopN: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DetectAndRecommendResponse
	decodeBody(t, rec, &resp)
	if resp.Emotion != "Sad" || resp.Confidence != 0.75 {
		t.Errorf("unexpected detection in combined response: %+v", resp)
	}
	if resp.Count != 2 {
		t.Errorf("expected top_n honored, got count %d", resp.Count)
	}
	for _, r := range resp.Recommendations {
		if r.Emotion != "Sad" {
			t.Errorf("expected detected emotion on recommendation, got %q", r.Emotion)
		}
	}
}

func TestStats(t *testing.T) {
	yt := &stubYouTube{configured: true, videos: testVideos()}
	cfg := testConfig()
	engine := recommend.NewEngine(yt, cfg.Recommend, cfg.YouTube.MaxPerLanguage)
	handler := NewRouter(cfg, NewServer(cfg, &stubDetector{}, yt, engine))

	// Generate some per-emotion traffic first.
	doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{Emotion: "Happy"})
	doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{Emotion: "Happy"})
	doJSON(t, handler, http.MethodPost, "/api/recommend", models.RecommendRequest{Emotion: "Angry"})

	rec := doJSON(t, handler, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.StatsResponse
	decodeBody(t, rec, &resp)
	if resp.Stats.RequestsByEmotion["Happy"] != 2 {
		t.Errorf("expected 2 Happy requests, got %d", resp.Stats.RequestsByEmotion["Happy"])
	}
	if resp.Stats.RequestsByEmotion["Angry"] != 1 {
		t.Errorf("expected 1 Angry request, got %d", resp.Stats.RequestsByEmotion["Angry"])
	}
	if len(resp.Stats.Languages) != 7 {
		t.Errorf("expected 7 languages, got %d", len(resp.Stats.Languages))
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodGet, "/api/nonexistent", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Success {
		t.Error("expected success false in 404 body")
	}
}

func TestInvalidJSONBody(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{configured: true})

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestRouter(&stubDetector{}, &stubYouTube{})

	rec := doJSON(t, handler, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics exposition output")
	}
}
