// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/metrics"
	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

const (
	profileKeyPrefix = "profile:"
	driverName       = "badger"
)

// Options configures the Badger database.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests.
	InMemory bool
}

// Store implements recommend.ProfileStore on BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens or creates the database.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an already open database. The caller keeps ownership of db.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database accepts reads.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// record is the stored form of a profile.
type record struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Headline    string              `json:"headline"`
	About       string              `json:"about"`
	Tags        json.RawMessage     `json:"tags,omitempty"`
	Education   []models.Education  `json:"education,omitempty"`
	Experience  []models.Experience `json:"experience,omitempty"`
	OfferingVec json.RawMessage     `json:"offering_vec,omitempty"`
	LookingVec  json.RawMessage     `json:"looking_vec,omitempty"`
}

func profileKey(id string) []byte {
	return []byte(profileKeyPrefix + id)
}

func decodeRecord(val []byte) (*models.Profile, error) {
	var r record
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &models.Profile{
		ID:          r.ID,
		Name:        r.Name,
		Headline:    r.Headline,
		About:       r.About,
		Tags:        tags.ParseTagSet(r.Tags),
		Education:   r.Education,
		Experience:  r.Experience,
		OfferingVec: embedding.ParseVector(r.OfferingVec),
		LookingVec:  embedding.ParseVector(r.LookingVec),
	}, nil
}

func encodeRecord(p *models.Profile) ([]byte, error) {
	tagData, err := json.Marshal(p.Tags.Normalized())
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	offering, err := embedding.EncodeVector(p.OfferingVec)
	if err != nil {
		return nil, fmt.Errorf("marshal offering vector: %w", err)
	}
	looking, err := embedding.EncodeVector(p.LookingVec)
	if err != nil {
		return nil, fmt.Errorf("marshal looking vector: %w", err)
	}
	return json.Marshal(record{
		ID:          p.ID,
		Name:        p.Name,
		Headline:    p.Headline,
		About:       p.About,
		Tags:        tagData,
		Education:   p.Education,
		Experience:  p.Experience,
		OfferingVec: offering,
		LookingVec:  looking,
	})
}

// GetProfile retrieves a profile by id.
func (s *Store) GetProfile(_ context.Context, id string) (profile *models.Profile, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, recommend.ErrProfileNotFound) {
			metrics.RecordStoreQuery("get_profile", driverName, time.Since(start), nil)
			return
		}
		metrics.RecordStoreQuery("get_profile", driverName, time.Since(start), err)
	}()

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			p, err := decodeRecord(val)
			if err != nil {
				return err
			}
			profile = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListOtherProfiles returns every profile except excludeID, ordered by key.
// Records that fail to decode are skipped.
func (s *Store) ListOtherProfiles(_ context.Context, excludeID string) ([]*models.Profile, error) {
	start := time.Now()
	profiles, err := s.scan(excludeID)
	metrics.RecordStoreQuery("list_profiles", driverName, time.Since(start), err)
	return profiles, err
}

// ListProfiles returns every profile, ordered by key.
func (s *Store) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.ListOtherProfiles(ctx, "")
}

func (s *Store) scan(excludeID string) ([]*models.Profile, error) {
	profiles := []*models.Profile{}
	exclude := profileKey(excludeID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if excludeID != "" && string(item.Key()) == string(exclude) {
				continue
			}
			err := item.Value(func(val []byte) error {
				p, err := decodeRecord(val)
				if err != nil {
					return nil // skip corrupt record
				}
				profiles = append(profiles, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return profiles, nil
}

// update applies fn to the stored profile inside one read-write transaction.
func (s *Store) update(op, id string, fn func(*models.Profile)) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		var p *models.Profile
		err = item.Value(func(val []byte) error {
			decoded, derr := decodeRecord(val)
			p = decoded
			return derr
		})
		if err != nil {
			return err
		}

		fn(p)

		data, err := encodeRecord(p)
		if err != nil {
			return err
		}
		return txn.Set(profileKey(id), data)
	})
	if errors.Is(err, recommend.ErrProfileNotFound) {
		metrics.RecordStoreQuery(op, driverName, time.Since(start), nil)
		return err
	}
	metrics.RecordStoreQuery(op, driverName, time.Since(start), err)
	return err
}

// UpdateTags replaces the tag slots of a profile. Stored vectors are
// cleared so they are recomputed from the new tags on the next match.
func (s *Store) UpdateTags(_ context.Context, id string, t tags.TagSet) error {
	return s.update("update_tags", id, func(p *models.Profile) {
		p.Tags = t.Normalized()
		p.OfferingVec = []float64{}
		p.LookingVec = []float64{}
	})
}

// UpdateVectors replaces both vectors of a profile in one write.
func (s *Store) UpdateVectors(_ context.Context, id string, offering, looking []float64) error {
	return s.update("update_vectors", id, func(p *models.Profile) {
		p.OfferingVec = offering
		p.LookingVec = looking
	})
}

// PutProfile inserts or replaces a whole profile.
func (s *Store) PutProfile(_ context.Context, p *models.Profile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	start := time.Now()
	data, err := encodeRecord(p)
	if err == nil {
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set(profileKey(p.ID), data)
		})
	}
	metrics.RecordStoreQuery("put_profile", driverName, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// Count returns the number of stored profiles.
func (s *Store) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Ensure Store implements the interface.
var _ recommend.ProfileStore = (*Store)(nil)
