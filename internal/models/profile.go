// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package models

import (
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// Extraction payload bounds.
const (
	MaxEducationEntries  = 8
	MaxExperienceEntries = 12
)

// Education is one education entry of a profile.
type Education struct {
	Title    string `json:"title"`
	Degree   string `json:"degree"`
	Duration string `json:"duration"`
}

// Experience is one work experience entry of a profile.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Profile is a person record as held by the profile store.
//
// OfferingVec and LookingVec are derived state. An empty slice means the
// vector has not been computed; stores never hand out nil slices.
type Profile struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Headline   string       `json:"headline"`
	About      string       `json:"about"`
	Tags       tags.TagSet  `json:"tags"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`

	OfferingVec []float64 `json:"offering_vec"`
	LookingVec  []float64 `json:"looking_vec"`
}

// ExtractPayload is the input handed to the keyword extractor.
type ExtractPayload struct {
	Headline   string       `json:"headline"`
	About      string       `json:"about"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
}

// TextPayload builds an extraction payload from free text.
func TextPayload(text string) ExtractPayload {
	return ExtractPayload{
		About:      text,
		Education:  []Education{},
		Experience: []Experience{},
	}
}

// ExtractPayload builds the extractor input for p, keeping at most
// MaxEducationEntries education and MaxExperienceEntries experience entries.
func (p *Profile) ExtractPayload() ExtractPayload {
	edu := p.Education
	if len(edu) > MaxEducationEntries {
		edu = edu[:MaxEducationEntries]
	}
	exp := p.Experience
	if len(exp) > MaxExperienceEntries {
		exp = exp[:MaxExperienceEntries]
	}
	if edu == nil {
		edu = []Education{}
	}
	if exp == nil {
		exp = []Experience{}
	}
	return ExtractPayload{
		Headline:   p.Headline,
		About:      p.About,
		Education:  edu,
		Experience: exp,
	}
}
