// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package recommend_test

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/christiankenc/letspopin-matching/internal/embedding"
	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/recommend/algorithms"
	"github.com/christiankenc/letspopin-matching/internal/recommend/reranking"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

// memStore is an in-memory recommend.ProfileStore.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	order    []string
	writes   map[string]int
	listErr  error
}

func newMemStore(profiles ...*models.Profile) *memStore {
	s := &memStore{profiles: map[string]*models.Profile{}, writes: map[string]int{}}
	for _, p := range profiles {
		s.profiles[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

func (s *memStore) copyOf(p *models.Profile) *models.Profile {
	c := *p
	return &c
}

func (s *memStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, recommend.ErrProfileNotFound
	}
	return s.copyOf(p), nil
}

func (s *memStore) ListOtherProfiles(_ context.Context, excludeID string) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*models.Profile{}
	for _, id := range s.order {
		if id != excludeID {
			out = append(out, s.copyOf(s.profiles[id]))
		}
	}
	return out, nil
}

func (s *memStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.ListOtherProfiles(ctx, "")
}

func (s *memStore) UpdateTags(_ context.Context, id string, t tags.TagSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return recommend.ErrProfileNotFound
	}
	p.Tags = t
	return nil
}

func (s *memStore) UpdateVectors(_ context.Context, id string, offering, looking []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return recommend.ErrProfileNotFound
	}
	p.OfferingVec, p.LookingVec = offering, looking
	s.writes[id]++
	return nil
}

func (s *memStore) PutProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.profiles[p.ID] = s.copyOf(p)
	return nil
}

// topicEmbedder maps each phrase, ignoring its direction prefix, to a
// fixed unit axis so that equal phrases have cosine 1 across directions.
type topicEmbedder struct {
	axes map[string]int
}

func (e *topicEmbedder) EmbedBatch(_ context.Context, texts []string) [][]float64 {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		_, phrase, _ := strings.Cut(t, ": ")
		v := make([]float64, embedding.Dimension)
		if i, ok := e.axes[phrase]; ok {
			v[i] = 1
		}
		out = append(out, v)
	}
	return out
}

// recordingReranker captures the shortlist it was handed.
type recordingReranker struct {
	inner recommend.Reranker
	seen  []recommend.Candidate
}

func (r *recordingReranker) Name() string { return r.inner.Name() }

func (r *recordingReranker) Rerank(ctx context.Context, items []recommend.Candidate, k int) []recommend.Candidate {
	r.seen = append([]recommend.Candidate(nil), items...)
	return r.inner.Rerank(ctx, items, k)
}

func newTestEngine(t *testing.T, cfg *recommend.Config, store recommend.ProfileStore, emb recommend.Embedder, rr recommend.Reranker) *recommend.Engine {
	t.Helper()
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if rr == nil {
		rr = reranking.NewMMR(cfg.Diversity.MMRLambda)
	}
	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
		Store:    store,
		Embedder: emb,
		Scorer:   algorithms.NewPairScorer(cfg.Scoring),
		Reranker: rr,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func fundingProfiles() []*models.Profile {
	return []*models.Profile{
		{
			ID: "a", Name: "Ada",
			Tags: tags.TagSet{LookingFor: []string{"funding"}, Offering: []string{"design"}},
		},
		{
			ID: "b", Name: "Bo", Headline: "Angel investor",
			Tags: tags.TagSet{LookingFor: []string{"design"}, Offering: []string{"funding"}},
		},
		{
			ID: "c", Name: "Cy",
			Tags: tags.TagSet{LookingFor: []string{"hiring"}, Offering: []string{"cooking"}},
		},
	}
}

func fundingAxes() *topicEmbedder {
	return &topicEmbedder{axes: map[string]int{"funding": 0, "design": 1, "hiring": 2, "cooking": 3}}
}

func TestNewEngine_Validation(t *testing.T) {
	store := newMemStore()
	emb := fundingAxes()
	scorer := algorithms.NewPairScorer(recommend.DefaultConfig().Scoring)
	rr := reranking.NewMMR(0.8)

	tests := []struct {
		name string
		cfg  *recommend.Config
		deps recommend.Dependencies
	}{
		{"missing store", nil, recommend.Dependencies{Embedder: emb, Scorer: scorer, Reranker: rr}},
		{"missing embedder", nil, recommend.Dependencies{Store: store, Scorer: scorer, Reranker: rr}},
		{"missing scorer", nil, recommend.Dependencies{Store: store, Embedder: emb, Reranker: rr}},
		{"missing reranker", nil, recommend.Dependencies{Store: store, Embedder: emb, Scorer: scorer}},
		{"invalid config", &recommend.Config{}, recommend.Dependencies{Store: store, Embedder: emb, Scorer: scorer, Reranker: rr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := recommend.NewEngine(tt.cfg, tt.deps, zerolog.Nop()); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}
}

func TestEngine_Match_NotFound(t *testing.T) {
	engine := newTestEngine(t, nil, newMemStore(fundingProfiles()...), fundingAxes(), nil)

	_, err := engine.Match(context.Background(), "missing", 10)
	if !errors.Is(err, recommend.ErrProfileNotFound) {
		t.Errorf("Match() error = %v, want ErrProfileNotFound", err)
	}
}

func TestEngine_Match_ListError(t *testing.T) {
	store := newMemStore(fundingProfiles()...)
	store.listErr = errors.New("connection reset")
	engine := newTestEngine(t, nil, store, fundingAxes(), nil)

	if _, err := engine.Match(context.Background(), "a", 10); err == nil {
		t.Error("Match() error = nil, want list failure")
	}
}

func TestEngine_Match_Complementary(t *testing.T) {
	store := newMemStore(fundingProfiles()...)
	engine := newTestEngine(t, nil, store, fundingAxes(), nil)

	resp, err := engine.Match(context.Background(), "a", 10)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if resp.QueryID != "a" || resp.TotalCandidates != 2 {
		t.Errorf("QueryID = %q TotalCandidates = %d", resp.QueryID, resp.TotalCandidates)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(resp.Items))
	}

	top := resp.Items[0]
	if top.Profile.ID != "b" {
		t.Fatalf("top match = %s, want b", top.Profile.ID)
	}
	// both directions cosine 1 and both jaccards 1
	if math.Abs(top.Score-1.0) > 1e-9 {
		t.Errorf("top score = %f, want 1.0", top.Score)
	}
	wantReasons := []string{"matches what you're seeking: funding", "you can help them with: design"}
	if len(top.Reasons) != 2 || top.Reasons[0] != wantReasons[0] || top.Reasons[1] != wantReasons[1] {
		t.Errorf("reasons = %q, want %q", top.Reasons, wantReasons)
	}

	other := resp.Items[1]
	if other.Profile.ID != "c" || other.Score != 0 || len(other.Reasons) != 0 {
		t.Errorf("unrelated candidate = %+v, want c with score 0 and no reasons", other)
	}

	for _, it := range resp.Items {
		if it.Profile.ID == "a" {
			t.Error("query profile returned as its own match")
		}
	}

	// every profile gained vectors and persisted them once
	for _, id := range []string{"a", "b", "c"} {
		if store.writes[id] != 1 {
			t.Errorf("writes[%s] = %d, want 1", id, store.writes[id])
		}
	}

	// second request reuses stored vectors
	if _, err := engine.Match(context.Background(), "a", 10); err != nil {
		t.Fatalf("second Match() error = %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if store.writes[id] != 1 {
			t.Errorf("after second request writes[%s] = %d, want 1", id, store.writes[id])
		}
	}
}

func TestEngine_Match_TitleBonus(t *testing.T) {
	profiles := fundingProfiles()
	profiles[0].Tags.Title = []string{"founder"}
	profiles[2].Tags.Title = []string{"founder"}
	engine := newTestEngine(t, nil, newMemStore(profiles...), fundingAxes(), nil)

	resp, err := engine.Match(context.Background(), "a", 10)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	last := resp.Items[len(resp.Items)-1]
	if last.Profile.ID != "c" || math.Abs(last.Score-0.02) > 1e-9 {
		t.Errorf("c score = %f, want title bonus 0.02", last.Score)
	}
	if len(last.Reasons) != 1 || last.Reasons[0] != "similar roles: founder" {
		t.Errorf("c reasons = %q", last.Reasons)
	}
}

func manyProfiles(n int) []*models.Profile {
	out := make([]*models.Profile, 0, n+1)
	out = append(out, &models.Profile{
		ID:   "me",
		Tags: tags.TagSet{LookingFor: []string{"funding"}, Offering: []string{"design"}},
	})
	for i := 0; i < n; i++ {
		p := &models.Profile{ID: string(rune('A' + i))}
		// candidates alternate between full and one-sided fit
		if i%2 == 0 {
			p.Tags = tags.TagSet{Offering: []string{"funding"}, LookingFor: []string{"design"}}
		} else {
			p.Tags = tags.TagSet{Offering: []string{"funding"}}
		}
		out = append(out, p)
	}
	return out
}

func TestEngine_Match_KClamp(t *testing.T) {
	engine := newTestEngine(t, nil, newMemStore(manyProfiles(12)...), fundingAxes(), nil)

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"zero uses default", 0, 10},
		{"negative clamps to one", -5, 1},
		{"explicit", 3, 3},
		{"above pool", 40, 12},
		{"above max", 500, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := engine.Match(context.Background(), "me", tt.k)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if len(resp.Items) != tt.want {
				t.Errorf("len(Items) = %d, want %d", len(resp.Items), tt.want)
			}
		})
	}
}

func TestEngine_Match_Shortlist(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Limits = recommend.LimitsConfig{DefaultK: 2, MaxK: 3, ShortlistSize: 4}
	rr := &recordingReranker{inner: reranking.NewMMR(cfg.Diversity.MMRLambda)}
	engine := newTestEngine(t, cfg, newMemStore(manyProfiles(9)...), fundingAxes(), rr)

	resp, err := engine.Match(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(rr.seen) != 4 {
		t.Fatalf("reranker saw %d candidates, want shortlist of 4", len(rr.seen))
	}
	if !sort.SliceIsSorted(rr.seen, func(i, j int) bool { return rr.seen[i].Score > rr.seen[j].Score }) {
		t.Error("shortlist not sorted by descending score")
	}
	if len(resp.Items) != 2 {
		t.Errorf("len(Items) = %d, want default 2", len(resp.Items))
	}
	if resp.TotalCandidates != 9 {
		t.Errorf("TotalCandidates = %d, want 9", resp.TotalCandidates)
	}
	for _, c := range rr.seen {
		if len(c.Handle) != embedding.Dimension {
			t.Errorf("handle len = %d, want %d", len(c.Handle), embedding.Dimension)
		}
	}
}

func TestEngine_Match_HashFallbackEmbedder(t *testing.T) {
	// nil provider hashes every phrase
	emb := embedding.NewAdapter(nil, embedding.AdapterConfig{}, zerolog.Nop())
	engine := newTestEngine(t, nil, newMemStore(fundingProfiles()...), emb, nil)

	resp, err := engine.Match(context.Background(), "a", 10)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Profile.ID != "b" {
		t.Errorf("top match = %v, want b", resp.Items)
	}
}

func TestEngine_Warm(t *testing.T) {
	profiles := fundingProfiles()
	profiles = append(profiles, &models.Profile{ID: "d", Name: "Di"})
	store := newMemStore(profiles...)
	engine := newTestEngine(t, nil, store, fundingAxes(), nil)

	n, err := engine.Warm(context.Background())
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if n != 3 {
		t.Errorf("warmed = %d, want 3 (d has no tags)", n)
	}
	for _, id := range []string{"a", "b", "c"} {
		if store.writes[id] != 1 {
			t.Errorf("writes[%s] = %d, want 1", id, store.writes[id])
		}
	}
	if store.writes["d"] != 0 {
		t.Errorf("untagged profile should not be written")
	}

	n, err = engine.Warm(context.Background())
	if err != nil || n != 0 {
		t.Errorf("second Warm() = (%d, %v), want (0, nil)", n, err)
	}
}

func TestEngine_Warm_ListError(t *testing.T) {
	store := newMemStore(fundingProfiles()...)
	store.listErr = errors.New("closed")
	engine := newTestEngine(t, nil, store, fundingAxes(), nil)

	if _, err := engine.Warm(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
