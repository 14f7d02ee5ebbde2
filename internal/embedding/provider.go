// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformedResponse is returned when a provider answers with a payload
// that does not contain exactly one usable vector per input.
var ErrMalformedResponse = errors.New("embedding: malformed provider response")

// Provider turns a batch of texts into vectors.
//
// Implementations must return exactly one vector per input, in order, or an
// error. The Adapter treats any error as a signal to fall back to HashEmbed.
type Provider interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// batchResponse is the wire shape of a batchEmbedContents response.
type batchResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// ParseBatchResponse validates a batchEmbedContents payload for want inputs.
//
// It succeeds only when the payload carries exactly want non-empty numeric
// vectors. Each vector is truncated to Dimension and L2-normalized. Every
// other shape yields ErrMalformedResponse.
func ParseBatchResponse(body []byte, want int) ([][]float64, error) {
	var resp batchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrMalformedResponse, len(resp.Embeddings), want)
	}

	out := make([][]float64, want)
	for i, e := range resp.Embeddings {
		if len(e.Values) == 0 {
			return nil, fmt.Errorf("%w: embedding %d is empty", ErrMalformedResponse, i)
		}
		v := e.Values
		if len(v) > Dimension {
			v = v[:Dimension]
		}
		out[i] = L2Normalize(v)
	}
	return out, nil
}
