// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/christiankenc/letspopin-matching/internal/models"
)

// profileWriter upserts a profile.
type profileWriter interface {
	PutProfile(ctx context.Context, p *models.Profile) error
}

// seedProfiles reads a JSON array of profiles and upserts each one. Tags are
// normalized by the store on write.
func seedProfiles(ctx context.Context, w profileWriter, path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var profiles []*models.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return 0, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	n := 0
	for i, p := range profiles {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			return n, fmt.Errorf("seed file %s: profile %d has no id", path, i)
		}
		if err := w.PutProfile(ctx, p); err != nil {
			return n, fmt.Errorf("seed profile %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}
