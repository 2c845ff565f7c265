// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package emotion

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/moodtune/internal/logging"
)

// Canonical emotion labels. Inference models use varying label sets
// (lowercase, synonyms like "joy" or "anger"); everything is normalized to
// these before leaving the package.
var canonicalEmotions = []string{
	"Happy", "Sad", "Angry", "Neutral", "Surprise", "Fear", "Disgust",
}

// labelAliases maps lowercase model output labels to canonical emotions.
var labelAliases = map[string]string{
	"happy":     "Happy",
	"happiness": "Happy",
	"joy":       "Happy",
	"sad":       "Sad",
	"sadness":   "Sad",
	"angry":     "Angry",
	"anger":     "Angry",
	"neutral":   "Neutral",
	"surprise":  "Surprise",
	"surprised": "Surprise",
	"fear":      "Fear",
	"fearful":   "Fear",
	"disgust":   "Disgust",
	"disgusted": "Disgust",
}

// acceptedImageTypes are the content types the detector forwards to the
// inference service.
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Result is the outcome of a successful detection.
type Result struct {
	Emotion      string
	Confidence   float64
	AllEmotions  map[string]float64
	FaceDetected bool
}

// Detect decodes a base64 image (optionally a browser data URL), classifies
// it, and returns the dominant emotion. Returns ErrNoFace when the service
// reports no predictions.
func (c *Client) Detect(ctx context.Context, imageData string) (*Result, error) {
	image, contentType, err := c.decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	predictions, err := c.classify(ctx, image, contentType)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, ErrNoFace
	}

	all := make(map[string]float64, len(canonicalEmotions))
	for _, p := range predictions {
		label := normalizeLabel(p.Label)
		if label == "" {
			logging.Debug().Str("label", p.Label).Msg("unrecognized emotion label, skipping")
			continue
		}
		// Models occasionally emit duplicate labels; keep the best score.
		if p.Score > all[label] {
			all[label] = p.Score
		}
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("emotion inference: no recognizable labels in response")
	}

	top := ""
	topScore := -1.0
	for _, emotion := range canonicalEmotions {
		if score, ok := all[emotion]; ok && score > topScore {
			top = emotion
			topScore = score
		}
	}

	return &Result{
		Emotion:      top,
		Confidence:   topScore,
		AllEmotions:  all,
		FaceDetected: true,
	}, nil
}

// decodeImage turns a base64 payload into raw image bytes, enforcing the
// size cap and verifying the bytes look like an image. The data URL prefix
// browsers produce ("data:image/jpeg;base64,...") is stripped when present.
func (c *Client) decodeImage(imageData string) ([]byte, string, error) {
	payload := imageData
	if strings.HasPrefix(payload, "data:") {
		_, after, found := strings.Cut(payload, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		payload = after
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	// Base64 expands by 4/3; reject before decoding to avoid allocating
	// oversized buffers.
	if int64(len(payload))/4*3 > c.maxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if int64(len(image)) > c.maxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(image)
	if !acceptedImageTypes[contentType] {
		return nil, "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return image, contentType, nil
}

// normalizeLabel maps a model output label to a canonical emotion, or ""
// when unrecognized.
func normalizeLabel(label string) string {
	return labelAliases[strings.ToLower(strings.TrimSpace(label))]
}
