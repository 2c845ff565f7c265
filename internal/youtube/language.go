// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package youtube

import "strings"

// languageKeywords maps supported language names to the keyword injected
// into search queries.
var languageKeywords = map[string]string{
	"English": "english",
	"Hindi":   "hindi",
	"Punjabi": "punjabi",
	"Tamil":   "tamil",
	"Telugu":  "telugu",
	"Korean":  "korean",
	"Spanish": "spanish",
}

// languageKeyword returns the search keyword for a language, lowercasing
// unknown names so arbitrary inputs still form a usable query.
func languageKeyword(language string) string {
	if kw, ok := languageKeywords[language]; ok {
		return kw
	}
	return strings.ToLower(language)
}

// languageMarkers drives InferLanguage. Order matters: the first language
// whose markers match wins, and English is the fallback.
var languageMarkers = []struct {
	language string
	markers  []string
}{
	{"Hindi", []string{"hindi", "bollywood", "hindi song"}},
	{"Punjabi", []string{"punjabi", "punjab", "bhangra"}},
	{"Tamil", []string{"tamil", "kollywood", "tamil song"}},
	{"Telugu", []string{"telugu", "tollywood", "telugu song"}},
	{"Korean", []string{"korean", "k-pop", "kpop", "korean song"}},
	{"Spanish", []string{"spanish", "español", "latino", "spanish song"}},
}

// InferLanguage guesses a video's language from keywords in its title,
// description, and channel name. Defaults to English when nothing matches.
func InferLanguage(v Video) string {
	text := strings.ToLower(v.Title + " " + v.Description + " " + v.ChannelTitle)

	for _, lm := range languageMarkers {
		for _, marker := range lm.markers {
			if strings.Contains(text, marker) {
				return lm.language
			}
		}
	}
	return "English"
}
