// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

// Package badgerstore is the default profile repository, backed by BadgerDB.
//
// Each profile is one JSON record under the key "profile:{id}". Tag slots
// and vectors are kept as raw JSON so that records written by older tools,
// or by hand, decode tolerantly: a malformed slot reads as empty and a
// malformed vector reads as "not yet computed".
//
// Usage:
//
//	store, err := badgerstore.Open(badgerstore.Options{Path: "/data/profiles"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{Store: store, ...}, logger)
package badgerstore
