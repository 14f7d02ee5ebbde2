// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package tags canonicalizes free-form tag lists into bounded phrase sets.
//
// Every list that enters the matcher (extractor output, stored profile
// columns, API input) passes through Normalize, so downstream code can rely
// on lowercase, whitespace-collapsed, deduplicated phrases of at most three
// words.
package tags

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Normalization bounds.
const (
	MaxPhrases      = 12
	MaxPhraseLen    = 40
	MaxPhraseTokens = 3
)

// Slot keys of a TagSet as they appear in extractor output and storage.
const (
	KeyTitle      = "title"
	KeyCompany    = "company"
	KeyLookingFor = "looking_for"
	KeyOffering   = "offering"
)

// TagSet holds the four normalized phrase slots of a profile.
// Slots produced by this package are never nil.
type TagSet struct {
	Title      []string `json:"title"`
	Company    []string `json:"company"`
	LookingFor []string `json:"looking_for"`
	Offering   []string `json:"offering"`
}

// Normalized returns a copy of t with every slot run through Normalize.
func (t TagSet) Normalized() TagSet {
	return TagSet{
		Title:      Normalize(t.Title),
		Company:    Normalize(t.Company),
		LookingFor: Normalize(t.LookingFor),
		Offering:   Normalize(t.Offering),
	}
}

// IsEmpty reports whether all four slots are empty.
func (t TagSet) IsEmpty() bool {
	return len(t.Title) == 0 && len(t.Company) == 0 && len(t.LookingFor) == 0 && len(t.Offering) == 0
}

// Normalize canonicalizes an arbitrary list into a phrase slot.
//
// Accepted inputs are []string and []any (as produced by JSON decoding).
// Anything else yields an empty slice. Elements are stringified,
// lowercased, trimmed and whitespace-collapsed; empty phrases, phrases with
// more than MaxPhraseTokens words and phrases longer than MaxPhraseLen
// characters are dropped. The first occurrence of a duplicate wins and the
// result is capped at MaxPhrases.
func Normalize(raw any) []string {
	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := stringify(el); ok {
				items = append(items, s)
			}
		}
	default:
		return []string{}
	}

	out := make([]string, 0, min(len(items), MaxPhrases))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		words := strings.Fields(strings.ToLower(item))
		if len(words) == 0 || len(words) > MaxPhraseTokens {
			continue
		}
		phrase := strings.Join(words, " ")
		if utf8.RuneCountInString(phrase) > MaxPhraseLen {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
		if len(out) == MaxPhrases {
			break
		}
	}
	return out
}

// stringify renders scalar JSON values as text. Objects, arrays and null
// carry no usable phrase and are skipped.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	case json.Number:
		return x.String(), true
	default:
		return "", false
	}
}

// EnsureTagsShape builds a TagSet from an arbitrary decoded object.
// Missing or malformed keys become empty slots.
func EnsureTagsShape(obj map[string]any) TagSet {
	if obj == nil {
		obj = map[string]any{}
	}
	return TagSet{
		Title:      Normalize(obj[KeyTitle]),
		Company:    Normalize(obj[KeyCompany]),
		LookingFor: Normalize(obj[KeyLookingFor]),
		Offering:   Normalize(obj[KeyOffering]),
	}
}

// ParseTagSet decodes a JSON object into a normalized TagSet.
// Invalid JSON yields an empty TagSet.
func ParseTagSet(data []byte) TagSet {
	var obj map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &obj); err != nil {
			obj = nil
		}
	}
	return EnsureTagsShape(obj)
}

// ParseList decodes a stored JSON array into a normalized slot.
// Absent, null and invalid input all yield an empty, non-nil slice.
func ParseList(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{}
	}
	return Normalize(raw)
}

// Overlap returns the phrases present in both a and b, deduplicated, in the
// order they first appear in a.
func Overlap(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return []string{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	out := []string{}
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
