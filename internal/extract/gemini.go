// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package extract

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
	"github.com/rs/zerolog"

	"github.com/christiankenc/letspopin-matching/internal/logging"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/resilience"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// Defaults for the Gemini extractor.
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-2.0-flash-lite"
	DefaultTemperature = 0.2

	maxResponseBytes = 4 << 20
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty model response")

// Config configures the Gemini extractor.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	Breaker     resilience.Settings
}

// Gemini extracts tags with the generateContent endpoint.
//
// The first attempt asks for schema-constrained JSON. When it fails for any
// reason a second, unconstrained attempt is made and the JSON object is
// salvaged from the reply text. Both attempts share one circuit breaker.
type Gemini struct {
	apiKey      string
	endpoint    string
	temperature float64
	client      *http.Client
	breaker     *resilience.Breaker[string]
	logger      zerolog.Logger
}

// NewGemini creates an extractor. An API key is required.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGemini(cfg Config, logger zerolog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini extractor: api key not provided")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Breaker == (resilience.Settings{}) {
		cfg.Breaker = resilience.DefaultSettings()
	}

	model := strings.TrimPrefix(cfg.Model, "models/")
	return &Gemini{
		apiKey:      cfg.APIKey,
		endpoint:    fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), model),
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
		breaker:     resilience.NewBreaker[string]("gemini-extract", cfg.Breaker),
		logger:      logger.With().Str("component", "extractor").Logger(),
	}, nil
}

// Extract returns the normalized tag set for payload.
func (g *Gemini) Extract(ctx context.Context, payload models.ExtractPayload) (tags.TagSet, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return tags.TagSet{}, fmt.Errorf("marshal payload: %w", err)
	}

	result, err := g.structured(ctx, input)
	metrics.RecordExtraction("structured", err)
	if err == nil {
		return result, nil
	}
	g.logger.Warn().Err(err).
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Msg("structured extraction failed, retrying relaxed")

	result, err = g.relaxed(ctx, input)
	metrics.RecordExtraction("relaxed", err)
	if err != nil {
		return tags.TagSet{}, fmt.Errorf("extract keywords: %w", err)
	}
	return result, nil
}

func (g *Gemini) structured(ctx context.Context, input []byte) (tags.TagSet, error) {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: Prompt}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: string(input)}}}},
		GenerationConfig: generationConfig{
			Temperature:      g.temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   tagSchema(),
		},
	}
	raw, err := g.generate(ctx, req)
	if err != nil {
		return tags.TagSet{}, err
	}
	return parseTags(raw)
}

func (g *Gemini) relaxed(ctx context.Context, input []byte) (tags.TagSet, error) {
	prompt := Prompt + relaxedSuffix + string(input)
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: g.temperature},
	}
	raw, err := g.generate(ctx, req)
	if err != nil {
		return tags.TagSet{}, err
	}
	return parseTags(salvageJSON(raw))
}

// generate performs one generateContent call and returns the trimmed reply text.
func (g *Gemini) generate(ctx context.Context, body generateRequest) (string, error) {
	return g.breaker.Execute(func() (string, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var out generateResponse
		if err := json.Unmarshal(data, &out); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		text := strings.TrimSpace(out.text())
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}

// parseTags decodes a JSON object into a normalized TagSet.
func parseTags(raw string) (tags.TagSet, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return tags.TagSet{}, fmt.Errorf("parse model output: %w", err)
	}
	return tags.EnsureTagsShape(obj), nil
}

// salvageJSON strips a leading ```json fence and a trailing ``` fence, then
// keeps everything from the first "{" when the text ends with "}".
func salvageJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 7 && strings.EqualFold(s[:7], "```json") {
		s = strings.TrimLeft(s[7:], " \t\r\n")
	}
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if strings.HasSuffix(s, "}") {
		if i := strings.Index(s, "{"); i >= 0 {
			return s[i:]
		}
	}
	return s
}
