package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"promptdex/internal/dataset"
	"promptdex/internal/logging"
	"promptdex/internal/record"
)

func fixtureRecords() []record.PromptRecord {
	return []record.PromptRecord{
		{
			Text:        "neon samurai under heavy rain",
			Category:    record.CategorySciFiFuturistic,
			Model:       record.ExplicitModel("Midjourney"),
			OutputType:  record.OutputImage,
			Tags:        []string{"cyberpunk"},
			Source:      "gallery",
			Fingerprint: "aaaa000000000001",
		},
		{
			Text:        "samurai duel at dawn in tall grass",
			Category:    record.CategoryPortraitsPeople,
			Model:       record.AnyPlatform(),
			OutputType:  record.OutputImage,
			Source:      "gallery",
			Fingerprint: "bbbb000000000002",
		},
		{
			Text:        "neon city skyline timelapse",
			Category:    record.CategorySciFiFuturistic,
			Model:       record.ExplicitModel("Sora"),
			OutputType:  record.OutputVideo,
			Source:      "vids",
			Fingerprint: "cccc000000000003",
		},
		{
			Text:        "a red fox leaping through deep snow",
			Category:    record.CategoryAnimals,
			Model:       record.AnyPlatform(),
			OutputType:  record.OutputImage,
			Source:      "gallery",
			Fingerprint: "dddd000000000004",
		},
	}
}

func newLoadedEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	w := dataset.NewWriter(dir, logging.NewNop())
	if err := w.Publish(context.Background(), fixtureRecords(), dataset.Manifest{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	e := NewEngine(dir, time.Second, logging.NewNop())
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func TestEngineUnavailableBeforeLoad(t *testing.T) {
	e := NewEngine(t.TempDir(), time.Second, logging.NewNop())
	if _, err := e.Search(Request{Query: "samurai"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Search err = %v, want ErrUnavailable", err)
	}
	if _, err := e.Stats(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Stats err = %v, want ErrUnavailable", err)
	}
	if err := e.Load(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load err = %v, want ErrUnavailable", err)
	}
}

func TestSearchRanking(t *testing.T) {
	e := newLoadedEngine(t)

	result, err := e.Search(Request{Query: "neon samurai"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("Total = %d, want 3", result.Total)
	}
	if result.Records[0].Text != "neon samurai under heavy rain" {
		t.Errorf("best match = %q, want the record matching both tokens", result.Records[0].Text)
	}
	// Remaining single-token matches come back in identifier order.
	if result.Records[1].ID > result.Records[2].ID {
		t.Errorf("ties not ordered by identifier: %d before %d", result.Records[1].ID, result.Records[2].ID)
	}
}

func TestSearchRepeatedQueryTokensCountOnce(t *testing.T) {
	e := newLoadedEngine(t)

	result, err := e.Search(Request{Query: "fox fox duel"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("Total = %d, want 2", result.Total)
	}
	// Each record matches exactly one distinct token, so the tie resolves
	// by ascending identifier regardless of the repeated word.
	if result.Records[0].ID >= result.Records[1].ID {
		t.Errorf("repeated token broke the tie order: got id %d before id %d",
			result.Records[0].ID, result.Records[1].ID)
	}
}

func TestSearchTagMatch(t *testing.T) {
	e := newLoadedEngine(t)
	result, err := e.Search(Request{Query: "cyberpunk"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 || result.Records[0].Tags[0] != "cyberpunk" {
		t.Errorf("tag match failed: %+v", result)
	}
}

func TestSearchFilterComposition(t *testing.T) {
	e := newLoadedEngine(t)

	result, err := e.Search(Request{Query: "neon", Category: "sci-fi-futuristic", OutputType: "video"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 || result.Records[0].Text != "neon city skyline timelapse" {
		t.Errorf("composed filters returned %+v", result)
	}

	result, err = e.Search(Request{Model: record.AnyPlatformToken})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("model filter Total = %d, want 2", result.Total)
	}
}

func TestSearchZeroMatchesIsEmptyResult(t *testing.T) {
	e := newLoadedEngine(t)
	result, err := e.Search(Request{Query: "volcano"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 0 || len(result.Records) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSearchInvalidRequests(t *testing.T) {
	e := newLoadedEngine(t)
	tests := []struct {
		name string
		req  Request
	}{
		{"empty request", Request{}},
		{"blank query only", Request{Query: "   "}},
		{"unknown category", Request{Category: "puppies"}},
		{"unknown model", Request{Query: "neon", Model: "Imaginary 9000"}},
		{"unknown output type", Request{Query: "neon", OutputType: "hologram"}},
		{"negative limit", Request{Query: "neon", Limit: -1}},
		{"negative offset", Request{Query: "neon", Offset: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Search(tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestSearchPagination(t *testing.T) {
	e := newLoadedEngine(t)

	page, err := e.Search(Request{Query: "neon samurai", Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Total != 3 || len(page.Records) != 2 {
		t.Fatalf("first page: total %d, len %d", page.Total, len(page.Records))
	}

	rest, err := e.Search(Request{Query: "neon samurai", Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rest.Total != 3 || len(rest.Records) != 1 {
		t.Fatalf("second page: total %d, len %d", rest.Total, len(rest.Records))
	}
	if rest.Records[0].ID == page.Records[0].ID || rest.Records[0].ID == page.Records[1].ID {
		t.Error("pages overlap")
	}

	beyond, err := e.Search(Request{Query: "neon samurai", Offset: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(beyond.Records) != 0 || beyond.Total != 3 {
		t.Errorf("offset past end: %+v", beyond)
	}
}

func TestRandom(t *testing.T) {
	e := newLoadedEngine(t)
	e.intn = func(n int) int { return n - 1 }

	rec, err := e.Random(Request{Category: "sci-fi-futuristic"})
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if rec == nil || rec.Category != record.CategorySciFiFuturistic {
		t.Errorf("Random returned %+v", rec)
	}

	// Unfiltered draw works too.
	rec, err = e.Random(Request{})
	if err != nil || rec == nil {
		t.Errorf("unfiltered Random: rec=%v err=%v", rec, err)
	}

	// Empty subset is a valid, empty outcome.
	rec, err = e.Random(Request{Query: "volcano"})
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}

	if _, err := e.Random(Request{Category: "puppies"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestRandomIsUniformOverSubset(t *testing.T) {
	e := newLoadedEngine(t)

	var picks []int64
	for i := 0; i < 2; i++ {
		idx := i
		e.intn = func(n int) int {
			if idx >= n {
				t.Fatalf("subset smaller than expected: %d", n)
			}
			return idx
		}
		rec, err := e.Random(Request{Category: "sci-fi-futuristic"})
		if err != nil || rec == nil {
			t.Fatalf("Random: rec=%v err=%v", rec, err)
		}
		picks = append(picks, rec.ID)
	}
	if picks[0] == picks[1] {
		t.Errorf("index selection not honored: %v", picks)
	}
}

func TestStats(t *testing.T) {
	e := newLoadedEngine(t)
	stats, err := e.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.ByCategory[record.CategorySciFiFuturistic] != 2 {
		t.Errorf("ByCategory = %+v", stats.ByCategory)
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	w := dataset.NewWriter(dir, logging.NewNop())
	if err := w.Publish(context.Background(), fixtureRecords(), dataset.Manifest{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	e := NewEngine(dir, time.Second, logging.NewNop())
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := w.Publish(context.Background(), fixtureRecords()[:1], dataset.Manifest{}); err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 1 {
		t.Errorf("Len = %d after reload, want 1", snap.Len())
	}
}
