// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package recommend maps detected emotions to mood keywords and turns
// YouTube search results into ranked, language-diverse recommendations.
package recommend

import "strings"

// EmotionMoodMap translates a detected emotion into the mood keyword used
// to build YouTube search queries.
var EmotionMoodMap = map[string]string{
	"Happy":    "happy",
	"Sad":      "sad",
	"Angry":    "energetic",
	"Neutral":  "calm",
	"Surprise": "exciting",
	"Fear":     "dark",
	"Disgust":  "intense",
}

// SupportedLanguages lists the languages recommendations are drawn from.
// The order is significant: when a preferred language is requested, the
// extra diversity languages are taken from the front of this list.
var SupportedLanguages = []string{
	"English",
	"Hindi",
	"Punjabi",
	"Tamil",
	"Telugu",
	"Korean",
	"Spanish",
}

// MoodForEmotion returns the mood keyword for an emotion, defaulting to
// "happy" for anything unrecognized.
func MoodForEmotion(emotion string) string {
	if mood, ok := EmotionMoodMap[emotion]; ok {
		return mood
	}
	return "happy"
}

// IsSupportedLanguage reports whether language matches a supported language,
// ignoring case.
func IsSupportedLanguage(language string) bool {
	for _, l := range SupportedLanguages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

// NormalizeLanguage returns the canonical casing for a supported language.
// Unsupported inputs are returned unchanged.
func NormalizeLanguage(language string) string {
	for _, l := range SupportedLanguages {
		if strings.EqualFold(l, language) {
			return l
		}
	}
	return language
}
