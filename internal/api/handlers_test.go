// LetsPopIn Matching - Profile Matching and Diversity Reranking
// Copyright 2026 christiankenc
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/christiankenc/letspopin-matching

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/christiankenc/letspopin-matching/internal/models"
	"github.com/christiankenc/letspopin-matching/internal/recommend"
	"github.com/christiankenc/letspopin-matching/internal/tags"
)

type fakeStore struct {
	mu        sync.Mutex
	profiles  map[string]*models.Profile
	updated   map[string]tags.TagSet
	updateErr error
	listErr   error
	getErr    error
	pingErr   error
}

func newFakeStore(profiles ...*models.Profile) *fakeStore {
	s := &fakeStore{profiles: map[string]*models.Profile{}, updated: map[string]tags.TagSet{}}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, recommend.ErrProfileNotFound)
	}
	return p, nil
}

func (s *fakeStore) ListProfiles(_ context.Context) ([]*models.Profile, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) UpdateTags(_ context.Context, id string, t tags.TagSet) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return recommend.ErrProfileNotFound
	}
	s.updated[id] = t
	return nil
}

func (s *fakeStore) Ping(_ context.Context) error { return s.pingErr }

type fakeMatcher struct {
	resp  *recommend.Response
	err   error
	gotID string
	gotK  int
}

func (m *fakeMatcher) Match(_ context.Context, id string, k int) (*recommend.Response, error) {
	m.gotID, m.gotK = id, k
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type fakeExtractor struct {
	result     tags.TagSet
	err        error
	gotPayload *models.ExtractPayload
}

func (e *fakeExtractor) Extract(_ context.Context, p models.ExtractPayload) (tags.TagSet, error) {
	e.gotPayload = &p
	return e.result, e.err
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

type testServer struct {
	store     *fakeStore
	matcher   *fakeMatcher
	extractor *fakeExtractor
	handler   http.Handler
}

func newTestServer(t *testing.T, withExtractor bool) *testServer {
	t.Helper()
	ts := &testServer{
		store: newFakeStore(
			&models.Profile{
				ID:       "p-1",
				Name:     "Ada",
				Headline: "Founder",
				About:    "building things",
				Tags:     tags.TagSet{LookingFor: []string{"funding", "vc"}, Offering: []string{"mentor"}},
				Education: []models.Education{
					{Title: "McMaster University", Degree: "BEng"},
				},
			},
			&models.Profile{
				ID:   "p-2",
				Name: "Grace",
				Tags: tags.TagSet{LookingFor: []string{"hiring", "network"}, Offering: []string{"investor"}},
			},
		),
		matcher:   &fakeMatcher{},
		extractor: &fakeExtractor{},
	}

	deps := Dependencies{Store: ts.store, Matcher: ts.matcher, EmbedderName: "gemini", RequestTimeout: time.Second}
	if withExtractor {
		deps.Extractor = ts.extractor
	}
	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	ts.handler = NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_Validation(t *testing.T) {
	if _, err := NewHandler(Dependencies{Matcher: &fakeMatcher{}}); err == nil {
		t.Error("expected error without store")
	}
	if _, err := NewHandler(Dependencies{Store: newFakeStore()}); err == nil {
		t.Error("expected error without matcher")
	}
}

func TestMatch(t *testing.T) {
	ts := newTestServer(t, true)
	ts.matcher.resp = &recommend.Response{
		QueryID: "p-1",
		Items: []recommend.Candidate{
			{Profile: &models.Profile{ID: "p-2", Name: "Grace", Headline: "Investor"}, Score: 0.91, Reasons: []string{"matches what you're seeking: funding"}},
			{Profile: &models.Profile{ID: "p-3", Name: "Linus"}, Score: 0.1},
		},
	}

	rec := ts.do(http.MethodGet, "/api/ai/match/p-1?topk=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ts.matcher.gotID != "p-1" || ts.matcher.gotK != 2 {
		t.Errorf("matcher called with (%q, %d)", ts.matcher.gotID, ts.matcher.gotK)
	}

	env := decodeEnvelope(t, rec)
	var got models.MatchResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	want := models.MatchResponse{
		Query: "p-1",
		Results: []models.MatchResult{
			{ID: "p-2", Name: "Grace", Headline: "Investor", Score: 0.91, Reasons: []string{"matches what you're seeking: funding"}},
			{ID: "p-3", Name: "Linus", Score: 0.1, Reasons: []string{}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("data = %+v, want %+v", got, want)
	}
	if !strings.Contains(rec.Body.String(), `"reasons":[]`) {
		t.Error("empty reasons should encode as []")
	}
}

func TestMatch_TopK(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"?topk=7", 7},
		{"?topk=abc", 0},
		{"?topk=-3", -3},
		{"?topk=2.5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.matcher.resp = &recommend.Response{QueryID: "p-1"}

			rec := ts.do(http.MethodGet, "/api/ai/match/p-1"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if ts.matcher.gotK != tt.want {
				t.Errorf("k = %d, want %d", ts.matcher.gotK, tt.want)
			}
		})
	}
}

func TestMatch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "not found", err: fmt.Errorf("load: %w", recommend.ErrProfileNotFound), wantCode: http.StatusNotFound, wantErr: CodeNotFound},
		{name: "store failure", err: errors.New("disk on fire"), wantCode: http.StatusInternalServerError, wantErr: CodeMatchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.matcher.err = tt.err

			rec := ts.do(http.MethodGet, "/api/ai/match/zzz", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			env := decodeEnvelope(t, rec)
			if env.Status != "error" || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("envelope = %+v", env)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error text leaked to client")
			}
		})
	}
}

func TestExtractKeywords_Text(t *testing.T) {
	ts := newTestServer(t, true)
	ts.extractor.result = tags.TagSet{Title: []string{"Engineer"}, LookingFor: []string{"hiring"}}

	rec := ts.do(http.MethodPost, "/api/ai/extract-keywords", `{"text":"senior engineer, hiring"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	want := models.TextPayload("senior engineer, hiring")
	if !reflect.DeepEqual(*ts.extractor.gotPayload, want) {
		t.Errorf("payload = %+v, want %+v", *ts.extractor.gotPayload, want)
	}
	if len(ts.store.updated) != 0 {
		t.Error("text-only extraction must not persist")
	}

	env := decodeEnvelope(t, rec)
	var got models.ExtractKeywordsResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.ID != nil {
		t.Errorf("id = %v, want null", *got.ID)
	}
	if !reflect.DeepEqual(got.Tags.Title, []string{"engineer"}) || len(got.Tags.Company) != 0 {
		t.Errorf("tags = %+v", got.Tags)
	}
	if !strings.Contains(rec.Body.String(), `"id":null`) {
		t.Error("id should encode as null")
	}
}

func TestExtractKeywords_Profile(t *testing.T) {
	ts := newTestServer(t, true)
	ts.extractor.result = tags.TagSet{Offering: []string{"Design", "design"}}

	rec := ts.do(http.MethodPost, "/api/ai/extract-keywords", `{"id":"p-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	p := ts.store.profiles["p-1"]
	if !reflect.DeepEqual(*ts.extractor.gotPayload, p.ExtractPayload()) {
		t.Errorf("payload = %+v", *ts.extractor.gotPayload)
	}
	persisted, ok := ts.store.updated["p-1"]
	if !ok {
		t.Fatal("tags were not persisted")
	}
	if !reflect.DeepEqual(persisted.Offering, []string{"design"}) || persisted.Title == nil {
		t.Errorf("persisted = %+v", persisted)
	}

	env := decodeEnvelope(t, rec)
	var got models.ExtractKeywordsResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.ID == nil || *got.ID != "p-1" {
		t.Errorf("id = %v", got.ID)
	}
}

func TestExtractKeywords_TextWithIDPersists(t *testing.T) {
	ts := newTestServer(t, true)
	ts.extractor.result = tags.TagSet{Title: []string{"cto"}}

	rec := ts.do(http.MethodPost, "/api/ai/extract-keywords", `{"id":"p-2","text":"cto"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ts.extractor.gotPayload.About != "cto" {
		t.Errorf("text should be the extraction input, got %+v", *ts.extractor.gotPayload)
	}
	if got := ts.store.updated["p-2"].Title; !reflect.DeepEqual(got, []string{"cto"}) {
		t.Errorf("persisted title = %v", got)
	}
}

func TestExtractKeywords_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		withExtractor bool
		extractErr    error
		getErr        error
		updateErr     error
		wantStatus    int
		wantCode      string
	}{
		{name: "empty body", body: "", withExtractor: true, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "neither field", body: `{}`, withExtractor: true, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "malformed json", body: `{"id":`, withExtractor: true, wantStatus: http.StatusBadRequest, wantCode: CodeInvalidBody},
		{name: "wrong type", body: `{"id":42}`, withExtractor: true, wantStatus: http.StatusBadRequest, wantCode: CodeInvalidBody},
		{name: "no extractor", body: `{"text":"x"}`, withExtractor: false, wantStatus: http.StatusServiceUnavailable, wantCode: CodeExtractUnavailable},
		{name: "unknown id", body: `{"id":"nope"}`, withExtractor: true, wantStatus: http.StatusNotFound, wantCode: CodeNotFound},
		{name: "unknown id with text", body: `{"id":"nope","text":"x"}`, withExtractor: true, wantStatus: http.StatusNotFound, wantCode: CodeNotFound},
		{name: "store read failure", body: `{"id":"p-1"}`, withExtractor: true, getErr: errors.New("io"), wantStatus: http.StatusInternalServerError, wantCode: CodeDatabaseError},
		{name: "extractor failure", body: `{"text":"x"}`, withExtractor: true, extractErr: errors.New("quota"), wantStatus: http.StatusInternalServerError, wantCode: CodeExtractFailed},
		{name: "persist failure is not fatal", body: `{"id":"p-1"}`, withExtractor: true, updateErr: errors.New("locked"), wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.withExtractor)
			ts.extractor.err = tt.extractErr
			ts.store.getErr = tt.getErr
			ts.store.updateErr = tt.updateErr

			req := httptest.NewRequest(http.MethodPost, "/api/ai/extract-keywords", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode == "" {
				return
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestGoalCounts(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodGet, "/api/ai/get-count", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var got tags.GoalCounts
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	wantLooking := map[string]int{"hiring": 1, "networking": 1, "investment": 1, "entertainment": 0, "learning": 0}
	wantOffering := map[string]int{"hiring": 0, "networking": 0, "investment": 1, "entertainment": 0, "learning": 1}
	if !reflect.DeepEqual(got.Looking, wantLooking) {
		t.Errorf("looking = %v, want %v", got.Looking, wantLooking)
	}
	if !reflect.DeepEqual(got.Offering, wantOffering) {
		t.Errorf("offering = %v, want %v", got.Offering, wantOffering)
	}
}

func TestGoalCounts_StoreError(t *testing.T) {
	ts := newTestServer(t, true)
	ts.store.listErr = errors.New("closed")

	rec := ts.do(http.MethodGet, "/api/ai/get-count", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error.Code != CodeDatabaseError {
		t.Errorf("code = %s", env.Error.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		pingErr     error
		path        string
		wantStatus  int
		wantOverall string
	}{
		{name: "live healthy", path: "/api/health/live", wantStatus: http.StatusOK, wantOverall: "healthy"},
		{name: "live degraded", path: "/api/health/live", pingErr: errors.New("down"), wantStatus: http.StatusOK, wantOverall: "degraded"},
		{name: "ready", path: "/api/health/ready", wantStatus: http.StatusOK, wantOverall: "healthy"},
		{name: "not ready", path: "/api/health/ready", pingErr: errors.New("down"), wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.store.pingErr = tt.pingErr

			rec := ts.do(http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantOverall == "" {
				return
			}
			var hr models.HealthResponse
			if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &hr); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if hr.Status != tt.wantOverall || hr.Embedder != "gemini" {
				t.Errorf("health = %+v", hr)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\tc\x7f"); got != `a\x0ab\x09c\x7f` {
		t.Errorf("got %q", got)
	}
}
