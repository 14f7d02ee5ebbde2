// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend

import "errors"

// ErrProfileNotFound is returned when a profile id is unknown to the store.
var ErrProfileNotFound = errors.New("profile not found")
