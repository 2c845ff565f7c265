// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package recommend

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/metrics"
	"github.com/tomtom215/moodtune/internal/models"
	"github.com/tomtom215/moodtune/internal/youtube"
)

// Request carries the inputs of a recommendation run. Confidence defaults
// to 1.0 and TopN to the configured default when unset.
type Request struct {
	Emotion    string
	Confidence float64
	Language   string
	TopN       int
}

// Engine turns a detected emotion into a ranked list of music video
// recommendations. It owns the per-emotion request counters surfaced by
// /api/stats.
//
// Thread Safety: all methods are safe for concurrent use.
type Engine struct {
	youtube        youtube.ClientInterface
	cfg            config.RecommendConfig
	maxPerLanguage int

	mu            sync.Mutex
	emotionCounts map[string]int64
}

// NewEngine creates a recommendation engine. maxPerLanguage is how many
// videos each per-language search contributes to the candidate pool.
func NewEngine(client youtube.ClientInterface, cfg config.RecommendConfig, maxPerLanguage int) *Engine {
	return &Engine{
		youtube:        client,
		cfg:            cfg,
		maxPerLanguage: maxPerLanguage,
		emotionCounts:  make(map[string]int64),
	}
}

// EmotionCounts returns a copy of the per-emotion request counters.
func (e *Engine) EmotionCounts() map[string]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := make(map[string]int64, len(e.emotionCounts))
	for emotion, n := range e.emotionCounts {
		counts[emotion] = n
	}
	return counts
}

func (e *Engine) recordRequest(emotion string) {
	metrics.RecommendationsTotal.WithLabelValues(emotion).Inc()

	e.mu.Lock()
	e.emotionCounts[emotion]++
	e.mu.Unlock()
}

// Recommend fetches multilingual candidates for the request's emotion and
// returns the top N ranked by popularity weighted by detection confidence.
// When a preferred language is given, at least PreferredQuota results come
// from it if candidates exist; the rest of the list keeps its language
// diversity.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]models.Recommendation, error) {
	confidence := req.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 1.0
	}
	topN := req.TopN
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	if topN > e.cfg.MaxTopN {
		topN = e.cfg.MaxTopN
	}

	mood := MoodForEmotion(req.Emotion)
	language := NormalizeLanguage(req.Language)

	e.recordRequest(req.Emotion)

	videos, err := e.youtube.SearchMultilingual(ctx, mood, e.searchLanguages(language), e.maxPerLanguage)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		logging.Warn().Str("emotion", req.Emotion).Str("mood", mood).
			Msg("no videos found for emotion")
		return []models.Recommendation{}, nil
	}

	selected := e.applyLanguagePreference(videos, language, topN)
	selected = e.ensureLanguageDiversity(selected, topN)

	// Rank by popularity weighted by mood match. The match score is the
	// detection confidence, uniform within a request, so this reduces to a
	// view count sort.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].ViewCount > selected[j].ViewCount
	})

	if len(selected) > topN {
		selected = selected[:topN]
	}

	recommendations := make([]models.Recommendation, 0, len(selected))
	languagesSeen := make(map[string]struct{})
	for _, v := range selected {
		languagesSeen[v.Language] = struct{}{}
		recommendations = append(recommendations, models.Recommendation{
			SongName:            v.Title,
			Artist:              extractArtist(v),
			ChannelTitle:        channelOrUnknown(v),
			Language:            v.Language,
			Emotion:             req.Emotion,
			Genre:               "Music",
			YouTubeID:           v.ID,
			YouTubeURL:          v.WatchURL,
			EmbedURL:            v.EmbedURL,
			Thumbnail:           v.Thumbnail,
			ViewCount:           v.ViewCount,
			LikeCount:           v.LikeCount,
			RecommendationScore: confidence * float64(v.ViewCount) / 1_000_000.0,
		})
	}

	metrics.RecommendationLanguages.Observe(float64(len(languagesSeen)))
	logging.Debug().
		Str("emotion", req.Emotion).
		Str("mood", mood).
		Int("count", len(recommendations)).
		Int("languages", len(languagesSeen)).
		Msg("recommendations built")

	return recommendations, nil
}

// Languages returns the supported language list for /api/languages.
func (e *Engine) Languages() []string {
	return SupportedLanguages
}

// searchLanguages picks which languages to search. A requested language is
// searched alongside the first ExtraLanguages others; with no request, all
// supported languages are searched.
func (e *Engine) searchLanguages(language string) []string {
	if language == "" {
		return SupportedLanguages
	}

	languages := []string{language}
	for _, l := range SupportedLanguages {
		if len(languages) > e.cfg.ExtraLanguages {
			break
		}
		if !strings.EqualFold(l, language) {
			languages = append(languages, l)
		}
	}
	return languages
}

// applyLanguagePreference reserves up to PreferredQuota slots for the
// requested language, filling the rest from other languages in rank order.
// Without a requested language the pool passes through unchanged.
func (e *Engine) applyLanguagePreference(videos []youtube.Video, language string, topN int) []youtube.Video {
	if language == "" {
		return videos
	}

	var preferred, others []youtube.Video
	for _, v := range videos {
		if strings.EqualFold(v.Language, language) {
			preferred = append(preferred, v)
		} else {
			others = append(others, v)
		}
	}

	quota := e.cfg.PreferredQuota
	if quota > len(preferred) {
		quota = len(preferred)
	}

	selected := make([]youtube.Video, 0, topN)
	selected = append(selected, preferred[:quota]...)
	remaining := topN - quota
	if remaining > len(others) {
		remaining = len(others)
	}
	if remaining > 0 {
		selected = append(selected, others[:remaining]...)
	}
	return selected
}

// ensureLanguageDiversity reshuffles the selection when it spans fewer than
// MinLanguages, taking the top video of every available language first and
// backfilling by popularity.
func (e *Engine) ensureLanguageDiversity(videos []youtube.Video, topN int) []youtube.Video {
	if len(videos) < e.cfg.MinLanguages {
		if len(videos) > topN {
			return videos[:topN]
		}
		return videos
	}

	byLanguage := make(map[string][]youtube.Video)
	for _, v := range videos {
		byLanguage[v.Language] = append(byLanguage[v.Language], v)
	}

	if len(byLanguage) >= e.cfg.MinLanguages {
		if len(videos) > topN {
			return videos[:topN]
		}
		return videos
	}

	// Most-represented languages first so the backfill stays predictable.
	languages := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		languages = append(languages, lang)
	}
	sort.SliceStable(languages, func(i, j int) bool {
		return len(byLanguage[languages[i]]) > len(byLanguage[languages[j]])
	})

	selected := make([]youtube.Video, 0, topN)
	taken := make(map[string]struct{})
	for _, lang := range languages {
		v := byLanguage[lang][0]
		selected = append(selected, v)
		taken[v.ID] = struct{}{}
	}

	remaining := make([]youtube.Video, 0, len(videos))
	for _, v := range videos {
		if _, ok := taken[v.ID]; !ok {
			remaining = append(remaining, v)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].ViewCount > remaining[j].ViewCount
	})

	slots := topN - len(selected)
	if slots > len(remaining) {
		slots = len(remaining)
	}
	if slots > 0 {
		selected = append(selected, remaining[:slots]...)
	}

	if len(selected) > topN {
		return selected[:topN]
	}
	return selected
}

// extractArtist derives an artist name from video metadata. Auto-generated
// channels carry " - Topic" or "VEVO" suffixes; titles often follow the
// "Song Name - Artist Name" convention.
func extractArtist(v youtube.Video) string {
	if v.ChannelTitle != "" {
		artist := strings.ReplaceAll(v.ChannelTitle, " - Topic", "")
		artist = strings.ReplaceAll(artist, "VEVO", "")
		artist = strings.TrimSpace(artist)
		if artist != "" {
			return artist
		}
	}

	if _, after, found := strings.Cut(v.Title, " - "); found {
		if artist := strings.TrimSpace(after); artist != "" {
			return artist
		}
	}

	if v.ChannelTitle != "" {
		return v.ChannelTitle
	}
	return "Unknown Artist"
}

func channelOrUnknown(v youtube.Video) string {
	if v.ChannelTitle == "" {
		return "Unknown"
	}
	return v.ChannelTitle
}
