// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package extract turns free-form profile text into the four tag slots
// (title, company, looking_for, offering) with a Gemini model.
//
// Extraction is two-phase. The structured attempt sends the prompt as a
// system instruction and constrains the reply with a JSON response schema.
// If that fails (transport error, empty reply, unparseable JSON) a relaxed
// attempt inlines the prompt and payload in one user message and salvages
// the JSON object from whatever text comes back, tolerating code fences
// and leading prose. Either way the result is normalized with
// tags.EnsureTagsShape.
package extract
