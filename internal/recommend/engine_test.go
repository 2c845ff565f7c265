// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/youtube"
)

// fakeYouTube satisfies youtube.ClientInterface with canned results and
// records what the engine asked for.
type fakeYouTube struct {
	videos []youtube.Video
	err    error

	gotMood      string
	gotLanguages []string
}

func (f *fakeYouTube) Configured() bool { return true }

func (f *fakeYouTube) SearchMusicVideos(_ context.Context, mood, language string, _ int) ([]youtube.Video, error) {
	return f.videos, f.err
}

func (f *fakeYouTube) VideoDetails(_ context.Context, _ []string) ([]youtube.Video, error) {
	return f.videos, f.err
}

func (f *fakeYouTube) SearchMultilingual(_ context.Context, mood string, languages []string, _ int) ([]youtube.Video, error) {
	f.gotMood = mood
	f.gotLanguages = languages
	return f.videos, f.err
}

func testConfig() config.RecommendConfig {
	return config.RecommendConfig{
		DefaultTopN:    5,
		MaxTopN:        50,
		MinLanguages:   3,
		PreferredQuota: 2,
		ExtraLanguages: 2,
	}
}

func video(id, language string, views int64) youtube.Video {
	return youtube.Video{
		ID:           id,
		Title:        "Song " + id,
		ChannelTitle: "Channel " + id,
		Language:     language,
		ViewCount:    views,
		WatchURL:     "https://www.youtube.com/watch?v=" + id,
		EmbedURL:     "https://www.youtube.com/embed/" + id,
	}
}

func TestRecommendRanking(t *testing.T) {
	fake := &fakeYouTube{videos: []youtube.Video{
		video("a", "English", 100),
		video("b", "Hindi", 5000),
		video("c", "Korean", 2000),
	}}
	engine := NewEngine(fake, testConfig(), 10)

	recs, err := engine.Recommend(context.Background(), Request{
		Emotion:    "Happy",
		Confidence: 0.8,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}

	if fake.gotMood != "happy" {
		t.Errorf("expected mood happy, got %q", fake.gotMood)
	}
	if !reflect.DeepEqual(fake.gotLanguages, SupportedLanguages) {
		t.Errorf("expected all languages searched, got %v", fake.gotLanguages)
	}

	// Ranked by view count descending
	if recs[0].YouTubeID != "b" || recs[1].YouTubeID != "c" || recs[2].YouTubeID != "a" {
		t.Errorf("unexpected ranking: %s %s %s",
			recs[0].YouTubeID, recs[1].YouTubeID, recs[2].YouTubeID)
	}

	top := recs[0]
	if top.Emotion != "Happy" {
		t.Errorf("expected emotion annotation, got %q", top.Emotion)
	}
	if top.Genre != "Music" {
		t.Errorf("expected genre Music, got %q", top.Genre)
	}
	expectedScore := 0.8 * 5000 / 1_000_000.0
	if top.RecommendationScore != expectedScore {
		t.Errorf("expected score %f, got %f", expectedScore, top.RecommendationScore)
	}
}

func TestRecommendTopNBounds(t *testing.T) {
	videos := make([]youtube.Video, 0, 10)
	languages := []string{"English", "Hindi", "Korean"}
	for i := 0; i < 10; i++ {
		videos = append(videos, video(string(rune('a'+i)), languages[i%3], int64(1000-i)))
	}
	engine := NewEngine(&fakeYouTube{videos: videos}, testConfig(), 10)

	// Zero TopN falls back to the default.
	recs, err := engine.Recommend(context.Background(), Request{Emotion: "Sad"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) != 5 {
		t.Errorf("expected default of 5 recommendations, got %d", len(recs))
	}

	// Explicit TopN is honored.
	recs, err = engine.Recommend(context.Background(), Request{Emotion: "Sad", TopN: 3})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(recs))
	}
}

func TestRecommendLanguagePreference(t *testing.T) {
	fake := &fakeYouTube{videos: []youtube.Video{
		video("h1", "Hindi", 900),
		video("h2", "Hindi", 800),
		video("h3", "Hindi", 700),
		video("e1", "English", 9000),
		video("e2", "English", 8000),
		video("k1", "Korean", 7000),
	}}
	engine := NewEngine(fake, testConfig(), 10)

	recs, err := engine.Recommend(context.Background(), Request{
		Emotion:  "Happy",
		Language: "Hindi",
		TopN:     5,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	// Requested language + 2 extras searched
	expected := []string{"Hindi", "English", "Punjabi"}
	if !reflect.DeepEqual(fake.gotLanguages, expected) {
		t.Errorf("expected languages %v, got %v", expected, fake.gotLanguages)
	}

	hindi := 0
	for _, r := range recs {
		if r.Language == "Hindi" {
			hindi++
		}
	}
	if hindi < 2 {
		t.Errorf("expected at least 2 Hindi recommendations, got %d", hindi)
	}
	if len(recs) != 5 {
		t.Errorf("expected 5 recommendations, got %d", len(recs))
	}
}

func TestRecommendLanguageDiversity(t *testing.T) {
	// Only two languages in the pool: the reshuffle guarantees each appears.
	fake := &fakeYouTube{videos: []youtube.Video{
		video("e1", "English", 9000),
		video("e2", "English", 8000),
		video("e3", "English", 7000),
		video("e4", "English", 6000),
		video("h1", "Hindi", 100),
	}}
	engine := NewEngine(fake, testConfig(), 10)

	recs, err := engine.Recommend(context.Background(), Request{Emotion: "Neutral", TopN: 3})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}

	seen := make(map[string]bool)
	for _, r := range recs {
		seen[r.Language] = true
	}
	if !seen["Hindi"] {
		t.Error("expected low-view Hindi video kept for diversity")
	}
	if !seen["English"] {
		t.Error("expected English videos present")
	}
}

func TestRecommendEmptyPool(t *testing.T) {
	engine := NewEngine(&fakeYouTube{}, testConfig(), 10)

	recs, err := engine.Recommend(context.Background(), Request{Emotion: "Happy"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", recs)
	}
}

func TestRecommendUpstreamError(t *testing.T) {
	wantErr := errors.New("quota exhausted")
	engine := NewEngine(&fakeYouTube{err: wantErr}, testConfig(), 10)

	_, err := engine.Recommend(context.Background(), Request{Emotion: "Happy"})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected upstream error to propagate, got %v", err)
	}
}

func TestEmotionCounts(t *testing.T) {
	engine := NewEngine(&fakeYouTube{}, testConfig(), 10)

	for i := 0; i < 3; i++ {
		_, _ = engine.Recommend(context.Background(), Request{Emotion: "Happy"})
	}
	_, _ = engine.Recommend(context.Background(), Request{Emotion: "Sad"})

	counts := engine.EmotionCounts()
	if counts["Happy"] != 3 {
		t.Errorf("expected 3 Happy requests, got %d", counts["Happy"])
	}
	if counts["Sad"] != 1 {
		t.Errorf("expected 1 Sad request, got %d", counts["Sad"])
	}

	// Returned map is a copy.
	counts["Happy"] = 100
	if engine.EmotionCounts()["Happy"] != 3 {
		t.Error("expected EmotionCounts to return a copy")
	}
}

func TestExtractArtist(t *testing.T) {
	tests := []struct {
		name     string
		video    youtube.Video
		expected string
	}{
		{
			name:     "topic channel suffix stripped",
			video:    youtube.Video{ChannelTitle: "Arijit Singh - Topic"},
			expected: "Arijit Singh",
		},
		{
			name:     "vevo suffix stripped",
			video:    youtube.Video{ChannelTitle: "TaylorSwiftVEVO"},
			expected: "TaylorSwift",
		},
		{
			name:     "plain channel kept",
			video:    youtube.Video{ChannelTitle: "BTS"},
			expected: "BTS",
		},
		{
			name:     "title fallback",
			video:    youtube.Video{Title: "Tum Hi Ho - Arijit Singh"},
			expected: "Arijit Singh",
		},
		{
			name:     "no metadata",
			video:    youtube.Video{Title: "Untitled"},
			expected: "Unknown Artist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractArtist(tt.video); got != tt.expected {
				t.Errorf("extractArtist() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
