// Moodtune - Emotion-Based Music Video Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodtune

// Package emotion detects facial emotions by delegating to an external
// image-classification inference service.
//
// The service contract is simple: POST raw image bytes, receive a JSON
// array of {label, score} predictions sorted by score. An empty array
// means no face was found in the image.
package emotion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodtune/internal/config"
	"github.com/tomtom215/moodtune/internal/metrics"
)

// ErrNotConfigured is returned when no inference service URL is set.
var ErrNotConfigured = errors.New("emotion service not configured")

// ErrNoFace is returned when the inference service finds no face.
var ErrNoFace = errors.New("no face detected in image")

// ErrImageTooLarge is returned when the decoded image exceeds the
// configured size cap.
var ErrImageTooLarge = errors.New("image exceeds maximum allowed size")

// ErrInvalidImage is returned when the payload is not decodable image data.
var ErrInvalidImage = errors.New("invalid image data")

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// prediction is one entry of the inference service response.
type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Detector is the emotion detection surface the API handlers consume.
// Implemented by Client for production and by stubs in tests.
type Detector interface {
	Configured() bool
	Detect(ctx context.Context, imageData string) (*Result, error)
}

// Client calls the inference service over HTTP.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	serviceURL    string
	token         string
	maxImageBytes int64
	httpClient    *http.Client
	breaker       *breaker
}

// NewClient creates an inference client from configuration.
func NewClient(cfg config.EmotionConfig) *Client {
	return &Client{
		serviceURL:    cfg.ServiceURL,
		token:         cfg.Token,
		maxImageBytes: cfg.MaxImageBytes,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: newBreaker("emotion-api"),
	}
}

// Configured reports whether a service URL is present.
func (c *Client) Configured() bool {
	return c.serviceURL != ""
}

// classify sends image bytes to the inference service and returns its
// predictions. The request goes through the circuit breaker.
func (c *Client) classify(ctx context.Context, image []byte, contentType string) ([]prediction, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	status, body, err := c.breaker.execute(func() (int, []byte, error) {
		return c.doPost(ctx, image, contentType)
	})
	if err != nil {
		metrics.RecordUpstreamRequest("emotion", "classify", "failure", time.Since(start))
		return nil, fmt.Errorf("emotion inference request: %w", err)
	}

	if status != http.StatusOK {
		metrics.RecordUpstreamRequest("emotion", "classify", "failure", time.Since(start))
		return nil, fmt.Errorf("emotion inference: status %d: %s", status, strings.TrimSpace(string(body)))
	}

	var predictions []prediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		metrics.RecordUpstreamRequest("emotion", "classify", "failure", time.Since(start))
		return nil, fmt.Errorf("emotion inference: decode response: %w", err)
	}

	metrics.RecordUpstreamRequest("emotion", "classify", "success", time.Since(start))
	return predictions, nil
}

// doPost executes a single inference request and returns status plus body.
func (c *Client) doPost(ctx context.Context, image []byte, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(image))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return resp.StatusCode, body, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
