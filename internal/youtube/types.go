// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package youtube

// Video is the metadata Moodtune keeps for a YouTube music video, merged
// from search.list and videos.list responses.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	Thumbnail    string `json:"thumbnail"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	Duration     string `json:"duration"`
	CategoryID   string `json:"category_id"`
	EmbedURL     string `json:"embed_url"`
	WatchURL     string `json:"watch_url"`

	// Language is inferred from title/description/channel keywords.
	// SearchedLanguage is the language keyword the query was built with;
	// the two can differ when YouTube returns crossover content.
	Language         string `json:"language"`
	SearchedLanguage string `json:"searched_language"`
}

// searchResponse mirrors the subset of the search.list payload we consume.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// videosResponse mirrors the subset of the videos.list payload we consume.
type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			CategoryID   string `json:"categoryId"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// apiError mirrors the error envelope YouTube returns on non-2xx statuses.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
