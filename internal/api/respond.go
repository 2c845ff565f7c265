// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodtune/internal/logging"
	"github.com/tomtom215/moodtune/internal/models"
)

// respondJSON writes a JSON response with the given status code. Encoding
// failures are logged; the status line has already been sent at that point.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondError writes the error body shape the frontend consumes:
// {"success": false, "error": "...", "error_type": "..."}.
func respondError(w http.ResponseWriter, status int, message, errorType string) {
	respondJSON(w, status, models.ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: errorType,
	})
}

// respondNoFace writes the no-face error, which additionally carries
// "face_detected": false so the frontend can prompt the user to retake.
func respondNoFace(w http.ResponseWriter) {
	faceDetected := false
	respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
		Success:      false,
		Error:        "No face detected in image",
		ErrorType:    models.ErrTypeNoFace,
		FaceDetected: &faceDetected,
	})
}

// decodeJSONBody decodes a request body into v, rejecting bodies above
// maxBytes. Unknown fields are ignored so older frontends keep working.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sanitizeLogValue strips control characters from user-supplied values
// before they reach the logs, preventing log injection.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}
