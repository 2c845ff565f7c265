// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package youtube provides the YouTube Data API v3 client used for music
// video search.
//
// Client Features:
//   - API key authentication
//   - Circuit breaker protection
//   - Automatic HTTP 429 rate limit handling with exponential backoff
//   - Client-side QPS limiting (golang.org/x/time/rate)
//   - 1-hour TTL caching of search results keyed by (mood, language)
//   - Context support for cancellation and timeouts
//
// Search queries are built as "<mood> <language> song" and restricted to
// YouTube's Music category (videoCategoryId=10).
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodtune/internal/cache"
	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/metrics"
)

// musicCategoryID is YouTube's category for music videos.
const musicCategoryID = "10"

// videoBatchSize is the maximum number of IDs per videos.list call.
const videoBatchSize = 50

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error payloads.
const maxErrorBodySize = 64 * 1024 // 64KB

// rateLimitDelays are the backoff waits applied after consecutive HTTP 429
// responses. The request is abandoned once they are exhausted.
var rateLimitDelays = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
	16 * time.Second,
}

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("youtube api key not configured")

// ErrRateLimited is returned when the API keeps responding 429 after all
// backoff attempts.
var ErrRateLimited = errors.New("youtube api rate limit exceeded")

// ClientInterface defines the YouTube operations the recommendation engine
// consumes. Implemented by Client for production and by mocks in tests.
type ClientInterface interface {
	Configured() bool
	SearchMusicVideos(ctx context.Context, mood, language string, maxResults int) ([]Video, error)
	VideoDetails(ctx context.Context, videoIDs []string) ([]Video, error)
	SearchMultilingual(ctx context.Context, mood string, languages []string, maxPerLanguage int) ([]Video, error)
}

// Client is the YouTube Data API v3 client.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker
	cache      *cache.Cache
}

// NewClient creates a YouTube client from configuration. The search cache
// is owned by the client and shared across all searches.
func NewClient(cfg config.YouTubeConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker: newBreaker("youtube-api"),
		cache:   cache.New(cfg.CacheTTL),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// CacheStats exposes the search cache counters for /api/stats.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.GetStats()
}

// CacheHitRate exposes the search cache hit rate for /api/stats.
func (c *Client) CacheHitRate() float64 {
	return c.cache.HitRate()
}

// getJSON performs an authenticated GET against the given API endpoint and
// decodes the response into out. Applies QPS limiting, circuit breaking,
// and 429 backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	start := time.Now()
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		status, body, err := c.breaker.execute(func() (int, []byte, error) {
			return c.doGet(ctx, reqURL)
		})
		if err != nil {
			metrics.RecordUpstreamRequest("youtube", endpoint, "failure", time.Since(start))
			return fmt.Errorf("youtube %s request: %w", endpoint, err)
		}

		if status == http.StatusTooManyRequests {
			if attempt >= len(rateLimitDelays) {
				metrics.RecordUpstreamRequest("youtube", endpoint, "rate_limited", time.Since(start))
				return ErrRateLimited
			}
			delay := rateLimitDelays[attempt]
			logging.Warn().
				Str("endpoint", endpoint).
				Dur("backoff", delay).
				Int("attempt", attempt+1).
				Msg("YouTube API rate limited, backing off")
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if status != http.StatusOK {
			metrics.RecordUpstreamRequest("youtube", endpoint, "failure", time.Since(start))
			return fmt.Errorf("youtube %s: %s", endpoint, apiErrorMessage(status, body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			metrics.RecordUpstreamRequest("youtube", endpoint, "failure", time.Since(start))
			return fmt.Errorf("youtube %s: decode response: %w", endpoint, err)
		}

		metrics.RecordUpstreamRequest("youtube", endpoint, "success", time.Since(start))
		return nil
	}
}

// doGet executes a single GET request and returns status plus body. The
// body is fully read here so the breaker observes transport errors too.
func (c *Client) doGet(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, readBodyForError(resp.Body), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// apiErrorMessage extracts the API error message from an error body,
// falling back to the HTTP status.
func apiErrorMessage(status int, body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Sprintf("status %d: %s", status, e.Error.Message)
	}
	return fmt.Sprintf("status %d", status)
}

// searchParams keys the search cache. Equivalent queries share an entry.
type searchParams struct {
	Mood     string `json:"mood"`
	Language string `json:"language"`
}

// SearchMusicVideos searches for music videos matching a mood and language
// keyword. Results are served from cache within the TTL; a cache hit
// performs no API calls.
func (c *Client) SearchMusicVideos(ctx context.Context, mood, language string, maxResults int) ([]Video, error) {
	if maxResults > videoBatchSize {
		maxResults = videoBatchSize
	}

	cacheKey := cache.GenerateKey("youtube.search", searchParams{Mood: mood, Language: language})
	if cached, ok := c.cache.Get(cacheKey); ok {
		if videos, ok := cached.([]Video); ok {
			logging.Debug().Str("mood", mood).Str("language", language).Msg("search cache hit")
			if len(videos) > maxResults {
				return videos[:maxResults], nil
			}
			return videos, nil
		}
	}

	keyword := languageKeyword(language)
	query := fmt.Sprintf("%s %s song", mood, keyword)

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", "relevance")
	params.Set("safeSearch", "none")

	var sr searchResponse
	if err := c.getJSON(ctx, "search", params, &sr); err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}
	if len(videoIDs) == 0 {
		logging.Warn().Str("query", query).Msg("no search results")
		return nil, nil
	}

	videos, err := c.VideoDetails(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	// search.list already filters by category, but videos occasionally
	// come back re-categorized; keep only confirmed music videos.
	musicVideos := videos[:0]
	for _, v := range videos {
		if v.CategoryID == musicCategoryID {
			musicVideos = append(musicVideos, v)
		}
	}

	c.cache.Set(cacheKey, musicVideos)

	if len(musicVideos) > maxResults {
		return musicVideos[:maxResults], nil
	}
	return musicVideos, nil
}

// VideoDetails fetches full metadata for the given video IDs, batching
// requests at the API's 50-ID limit.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) ([]Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	allVideos := make([]Video, 0, len(videoIDs))
	for i := 0; i < len(videoIDs); i += videoBatchSize {
		end := i + videoBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics,contentDetails")
		params.Set("id", strings.Join(videoIDs[i:end], ","))

		var vr videosResponse
		if err := c.getJSON(ctx, "videos", params, &vr); err != nil {
			return nil, err
		}

		for _, item := range vr.Items {
			viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
			likeCount, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)

			allVideos = append(allVideos, Video{
				ID:           item.ID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ChannelTitle: item.Snippet.ChannelTitle,
				PublishedAt:  item.Snippet.PublishedAt,
				Thumbnail:    item.Snippet.Thumbnails.High.URL,
				ViewCount:    viewCount,
				LikeCount:    likeCount,
				Duration:     item.ContentDetails.Duration,
				CategoryID:   item.Snippet.CategoryID,
				EmbedURL:     "https://www.youtube.com/embed/" + item.ID,
				WatchURL:     "https://www.youtube.com/watch?v=" + item.ID,
			})
		}
	}

	return allVideos, nil
}

// SearchMultilingual searches each language in turn and merges the results.
// Per-language failures are logged and skipped so one bad search does not
// empty the whole response. The merged list is deduplicated by video ID and
// sorted by view count descending.
func (c *Client) SearchMultilingual(ctx context.Context, mood string, languages []string, maxPerLanguage int) ([]Video, error) {
	var allVideos []Video

	for _, language := range languages {
		results, err := c.SearchMusicVideos(ctx, mood, language, maxPerLanguage)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logging.Warn().Err(err).Str("language", language).Str("mood", mood).
				Msg("language search failed, continuing")
			continue
		}
		// Copy before annotating: SearchMusicVideos can return slices that
		// alias cached entries.
		videos := append([]Video(nil), results...)
		for i := range videos {
			videos[i].SearchedLanguage = language
			videos[i].Language = InferLanguage(videos[i])
		}
		allVideos = append(allVideos, videos...)
	}

	seen := make(map[string]struct{}, len(allVideos))
	unique := allVideos[:0]
	for _, v := range allVideos {
		if _, dup := seen[v.ID]; dup {
			continue
		}
		seen[v.ID] = struct{}{}
		unique = append(unique, v)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].ViewCount > unique[j].ViewCount
	})

	return unique, nil
}
