// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package recommend

import "testing"

func TestMoodForEmotion(t *testing.T) {
	tests := []struct {
		emotion  string
		expected string
	}{
		{"Happy", "happy"},
		{"Sad", "sad"},
		{"Angry", "energetic"},
		{"Neutral", "calm"},
		{"Surprise", "exciting"},
		{"Fear", "dark"},
		{"Disgust", "intense"},
		{"Confused", "happy"}, // unknown defaults to happy
		{"", "happy"},
	}

	for _, tt := range tests {
		if got := MoodForEmotion(tt.emotion); got != tt.expected {
			t.Errorf("MoodForEmotion(%q) = %q, expected %q", tt.emotion, got, tt.expected)
		}
	}
}

func TestIsSupportedLanguage(t *testing.T) {
	tests := []struct {
		language string
		expected bool
	}{
		{"English", true},
		{"hindi", true}, // case-insensitive
		{"KOREAN", true},
		{"French", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupportedLanguage(tt.language); got != tt.expected {
			t.Errorf("IsSupportedLanguage(%q) = %v, expected %v", tt.language, got, tt.expected)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	if got := NormalizeLanguage("hindi"); got != "Hindi" {
		t.Errorf("NormalizeLanguage(hindi) = %q, expected Hindi", got)
	}
	if got := NormalizeLanguage("Klingon"); got != "Klingon" {
		t.Errorf("NormalizeLanguage(Klingon) = %q, expected passthrough", got)
	}
}
