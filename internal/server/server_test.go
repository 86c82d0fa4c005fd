package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptdex/internal/dataset"
	"promptdex/internal/logging"
	"promptdex/internal/query"
	"promptdex/internal/record"
)

func fixtureRecords() []record.PromptRecord {
	return []record.PromptRecord{
		{
			Text:        "neon samurai under heavy rain",
			Category:    record.CategorySciFiFuturistic,
			Model:       record.ExplicitModel("Midjourney"),
			OutputType:  record.OutputImage,
			Source:      "gallery",
			Fingerprint: "aaaa000000000001",
		},
		{
			Text:        "a red fox leaping through deep snow",
			Category:    record.CategoryAnimals,
			Model:       record.AnyPlatform(),
			OutputType:  record.OutputImage,
			Source:      "gallery",
			Fingerprint: "bbbb000000000002",
		},
	}
}

func newTestServer(t *testing.T, load bool) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	w := dataset.NewWriter(dir, logging.NewNop())
	if err := w.Publish(context.Background(), fixtureRecords(), dataset.Manifest{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	engine := query.NewEngine(dir, time.Second, logging.NewNop())
	if load {
		if err := engine.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	return New("127.0.0.1:0", engine, dir, logging.NewNop()), dir
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	s, _ := newTestServer(t, true)

	rec := doGet(t, s, "/api/search?q=samurai")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result query.SearchResult
	decode(t, rec, &result)
	if result.Total != 1 || result.Records[0].Text != "neon samurai under heavy rain" {
		t.Errorf("result = %+v", result)
	}
}

func TestSearchEndpointZeroMatches(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := doGet(t, s, "/api/search?q=volcano")
	if rec.Code != http.StatusOK {
		t.Errorf("zero matches should be 200, got %d", rec.Code)
	}
}

func TestSearchEndpointBadRequests(t *testing.T) {
	s, _ := newTestServer(t, true)
	paths := []string{
		"/api/search",
		"/api/search?category=puppies",
		"/api/search?q=neon&limit=abc",
		"/api/search?q=neon&offset=-2",
		"/api/search?q=neon&type=hologram",
	}
	for _, path := range paths {
		rec := doGet(t, s, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
		var resp struct {
			Error string `json:"error"`
		}
		decode(t, rec, &resp)
		if resp.Error == "" {
			t.Errorf("%s: missing error message", path)
		}
	}
}

func TestEndpointsUnavailableBeforeLoad(t *testing.T) {
	s, _ := newTestServer(t, false)
	for _, path := range []string{"/api/search?q=samurai", "/api/random", "/api/stats"} {
		rec := doGet(t, s, path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, rec.Code)
		}
	}
}

func TestRandomEndpoint(t *testing.T) {
	s, _ := newTestServer(t, true)

	rec := doGet(t, s, "/api/random?category=animals")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Record *record.PromptRecord `json:"record"`
	}
	decode(t, rec, &resp)
	if resp.Record == nil || resp.Record.Category != record.CategoryAnimals {
		t.Errorf("record = %+v", resp.Record)
	}

	rec = doGet(t, s, "/api/random?q=volcano")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty subset status = %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Record != nil {
		t.Errorf("expected null record, got %+v", resp.Record)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := doGet(t, s, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats dataset.Stats
	decode(t, rec, &stats)
	if stats.Total != 2 {
		t.Errorf("Total = %d", stats.Total)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doGet(t, s, "/api/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Categories  []record.Category `json:"categories"`
		Models      []string          `json:"models"`
		OutputTypes []string          `json:"output_types"`
	}
	decode(t, rec, &resp)
	if len(resp.Categories) != 19 || len(resp.Models) != 16 || len(resp.OutputTypes) != 4 {
		t.Errorf("closed sets wrong: %d categories, %d models, %d types",
			len(resp.Categories), len(resp.Models), len(resp.OutputTypes))
	}
}

func TestHealthzEndpoint(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := doGet(t, s, "/api/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Dataset string `json:"dataset"`
	}
	decode(t, rec, &resp)
	if resp.Status != "ok" || resp.Dataset != "unavailable" {
		t.Errorf("health = %+v", resp)
	}

	loaded, _ := newTestServer(t, true)
	rec = doGet(t, loaded, "/api/healthz")
	decode(t, rec, &resp)
	if resp.Dataset != "ready" {
		t.Errorf("health after load = %+v", resp)
	}
}

func TestWatcherReloadsOnPublish(t *testing.T) {
	s, dir := newTestServer(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.watcher.start(ctx); err != nil {
		t.Fatalf("watcher start: %v", err)
	}
	defer s.watcher.stop()

	w := dataset.NewWriter(dir, logging.NewNop())
	if err := w.Publish(context.Background(), fixtureRecords()[:1], dataset.Manifest{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := s.engine.Snapshot()
		if err == nil && snap.Len() == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("snapshot was not reloaded after publish")
}
