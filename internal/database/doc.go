// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

/*
Package database provides the DuckDB-backed profile repository.

It is the alternate to the default Badger store and is selected with
STORE_DRIVER=duckdb. Profiles live in a single table:

	profiles(
	    id TEXT PRIMARY KEY,
	    name, headline, about TEXT,
	    title_tags, company_tags, looking_tags, offering_tags TEXT,  -- JSON arrays
	    education, experience TEXT,                                  -- JSON arrays
	    offering_vec, looking_vec TEXT,                              -- JSON number arrays
	    updated_at TIMESTAMP
	)

JSON columns are decoded tolerantly: malformed or NULL tag columns read as
empty slots and malformed vectors read as "not yet computed", so a bad row
degrades match quality instead of failing the request.

Use ":memory:" as the path for an in-process database in tests.
*/
package database
