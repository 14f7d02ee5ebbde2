// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package models defines the profile record and the HTTP API payloads.

Profile is the shape both stores persist and the matcher reads. The API
types wrap every response in APIResponse so clients can branch on the
status field and read timing from Metadata.
*/
package models
