// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package badgerstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store, profiles ...*models.Profile) {
	t.Helper()
	for _, p := range profiles {
		if err := s.PutProfile(context.Background(), p); err != nil {
			t.Fatalf("PutProfile(%s) error = %v", p.ID, err)
		}
	}
}

func TestStore_PutAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed(t, s, &models.Profile{
		ID:       "p1",
		Name:     "Ada",
		Headline: "Founder",
		Tags: tags.TagSet{
			Title:      []string{"Founder", "founder"},
			LookingFor: []string{"Funding"},
		},
		Education:   []models.Education{{Title: "MIT", Degree: "BSc"}},
		OfferingVec: []float64{0.6, 0.8},
	})

	got, err := s.GetProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Name != "Ada" || got.Headline != "Founder" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags.Title) != 1 || got.Tags.Title[0] != "founder" {
		t.Errorf("Title = %q, want normalized [founder]", got.Tags.Title)
	}
	if got.Tags.Company == nil || len(got.Tags.Company) != 0 {
		t.Errorf("Company = %#v, want empty non-nil", got.Tags.Company)
	}
	if len(got.OfferingVec) != 2 || got.OfferingVec[1] != 0.8 {
		t.Errorf("OfferingVec = %v", got.OfferingVec)
	}
	if got.LookingVec == nil || len(got.LookingVec) != 0 {
		t.Errorf("LookingVec = %#v, want empty non-nil", got.LookingVec)
	}
	if len(got.Education) != 1 || got.Education[0].Degree != "BSc" {
		t.Errorf("Education = %+v", got.Education)
	}
}

func TestStore_GetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProfile(context.Background(), "nobody")
	if !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestStore_PutProfile_RequiresID(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutProfile(context.Background(), &models.Profile{Name: "x"}); err == nil {
		t.Error("PutProfile() error = nil, want missing id error")
	}
}

func TestStore_ListOtherProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s,
		&models.Profile{ID: "a"},
		&models.Profile{ID: "b"},
		&models.Profile{ID: "c"},
	)

	others, err := s.ListOtherProfiles(ctx, "b")
	if err != nil {
		t.Fatalf("ListOtherProfiles() error = %v", err)
	}
	if len(others) != 2 || others[0].ID != "a" || others[1].ID != "c" {
		t.Errorf("others = %v", profileIDs(others))
	}

	all, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	count, err := s.Count(ctx)
	if err != nil || count != 3 {
		t.Errorf("Count() = %d, %v", count, err)
	}
}

func TestStore_ListOtherProfiles_Empty(t *testing.T) {
	s := newTestStore(t)
	others, err := s.ListOtherProfiles(context.Background(), "a")
	if err != nil {
		t.Fatalf("ListOtherProfiles() error = %v", err)
	}
	if others == nil || len(others) != 0 {
		t.Errorf("others = %#v, want empty non-nil", others)
	}
}

func TestStore_UpdateVectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, &models.Profile{ID: "a", Name: "Ada"})

	if err := s.UpdateVectors(ctx, "a", []float64{1, 0}, []float64{0, 1}); err != nil {
		t.Fatalf("UpdateVectors() error = %v", err)
	}

	got, err := s.GetProfile(ctx, "a")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if len(got.OfferingVec) != 2 || got.OfferingVec[0] != 1 || got.LookingVec[1] != 1 {
		t.Errorf("vectors = %v / %v", got.OfferingVec, got.LookingVec)
	}
	if got.Name != "Ada" {
		t.Errorf("Name = %q, other fields must survive", got.Name)
	}

	if err := s.UpdateVectors(ctx, "missing", nil, nil); !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("UpdateVectors(missing) = %v, want ErrProfileNotFound", err)
	}
}

func TestStore_UpdateTags_ClearsVectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, &models.Profile{
		ID:          "a",
		OfferingVec: []float64{1},
		LookingVec:  []float64{1},
	})

	err := s.UpdateTags(ctx, "a", tags.TagSet{Offering: []string{"  Product   Design "}})
	if err != nil {
		t.Fatalf("UpdateTags() error = %v", err)
	}

	got, err := s.GetProfile(ctx, "a")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if len(got.Tags.Offering) != 1 || got.Tags.Offering[0] != "product design" {
		t.Errorf("Offering = %q", got.Tags.Offering)
	}
	if len(got.OfferingVec) != 0 || len(got.LookingVec) != 0 {
		t.Errorf("vectors not cleared: %v / %v", got.OfferingVec, got.LookingVec)
	}

	if err := s.UpdateTags(ctx, "missing", tags.TagSet{}); !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("UpdateTags(missing) = %v, want ErrProfileNotFound", err)
	}
}

func TestStore_TolerantDecoding(t *testing.T) {
	s := newTestStore(t)
	raw := `{"id":"x","name":"X","tags":{"title":"not-an-array","offering":["Go",42,["nested"]]},` +
		`"offering_vec":"garbage","looking_vec":null}`
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey("x"), []byte(raw))
	})
	if err != nil {
		t.Fatalf("raw set error = %v", err)
	}

	got, err := s.GetProfile(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if len(got.Tags.Title) != 0 {
		t.Errorf("Title = %q, want empty", got.Tags.Title)
	}
	if len(got.Tags.Offering) != 2 || got.Tags.Offering[0] != "go" || got.Tags.Offering[1] != "42" {
		t.Errorf("Offering = %q, want [go 42]", got.Tags.Offering)
	}
	if got.OfferingVec == nil || len(got.OfferingVec) != 0 || got.LookingVec == nil {
		t.Errorf("malformed vectors must decode as empty, got %#v / %#v", got.OfferingVec, got.LookingVec)
	}
}

func TestStore_ListSkipsCorruptRecords(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, &models.Profile{ID: "good"})
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey("bad"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("raw set error = %v", err)
	}

	all, err := s.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != "good" {
		t.Errorf("profiles = %v, want [good]", profileIDs(all))
	}
}

func TestStore_Ping(t *testing.T) {
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close error = nil")
	}
}

func profileIDs(ps []*models.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
