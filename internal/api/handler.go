// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package api

import (
	"context"
	"errors"
	"time"

	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// Matcher ranks candidates for a profile.
type Matcher interface {
	Match(ctx context.Context, id string, k int) (*recommend.Response, error)
}

// Extractor turns profile text into tags.
type Extractor interface {
	Extract(ctx context.Context, payload models.ExtractPayload) (tags.TagSet, error)
}

// ProfileStore is the subset of the repository the handlers touch.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	UpdateTags(ctx context.Context, id string, t tags.TagSet) error
	Ping(ctx context.Context) error
}

// Dependencies wires the handlers.
type Dependencies struct {
	Store   ProfileStore
	Matcher Matcher

	// Extractor may be nil, in which case extraction answers 503.
	Extractor Extractor

	// EmbedderName is reported by the health endpoints.
	EmbedderName string

	// RequestTimeout bounds match and extraction work per request.
	RequestTimeout time.Duration
}

// Handler holds the HTTP handlers.
type Handler struct {
	store     ProfileStore
	matcher   Matcher
	extractor Extractor
	embedder  string
	timeout   time.Duration
	startTime time.Time
}

// NewHandler validates deps and returns a Handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Store == nil {
		return nil, errors.New("api: profile store is required")
	}
	if deps.Matcher == nil {
		return nil, errors.New("api: matcher is required")
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 30 * time.Second
	}
	return &Handler{
		store:     deps.Store,
		matcher:   deps.Matcher,
		extractor: deps.Extractor,
		embedder:  deps.EmbedderName,
		timeout:   deps.RequestTimeout,
		startTime: time.Now(),
	}, nil
}
