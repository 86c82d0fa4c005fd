// Package query serves read-only lookups over a published dataset.
//
// The engine holds the whole dataset as an immutable in-memory snapshot
// behind an atomic pointer. Reloads build a new snapshot on the side and
// swap it in, so queries never block on a publish and never observe a
// half-loaded dataset.
package query

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"promptdex/internal/dataset"
	"promptdex/internal/logging"
	"promptdex/internal/record"
)

// Engine answers search, random, and stats requests against the most
// recently loaded snapshot. Safe for concurrent use.
type Engine struct {
	dir     string
	timeout time.Duration
	logger  *slog.Logger
	snap    atomic.Pointer[Snapshot]

	// intn picks a random index; swapped out by tests for determinism.
	intn func(n int) int
}

// SearchResult is a ranked, paginated slice of the matching records.
type SearchResult struct {
	Total   int                   `json:"total"`
	Records []record.PromptRecord `json:"records"`
}

// NewEngine creates an engine over the dataset directory. No snapshot is
// loaded yet; queries fail with ErrUnavailable until Load succeeds.
func NewEngine(dir string, timeout time.Duration, logger *slog.Logger) *Engine {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Engine{
		dir:     dir,
		timeout: timeout,
		logger:  logging.WithComponent(logger, "query"),
		intn:    rand.Intn,
	}
}

// Load reads the published dataset and makes it the serving snapshot.
// On failure any previously loaded snapshot stays in service.
func (e *Engine) Load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	snap, err := LoadSnapshot(loadCtx, e.dir)
	if err != nil {
		e.logger.Warn("snapshot load failed", logging.Error(err))
		return err
	}
	e.snap.Store(snap)
	e.logger.Info("snapshot loaded", logging.Int("records", snap.Len()))
	return nil
}

// Snapshot returns the serving snapshot or ErrUnavailable.
func (e *Engine) Snapshot() (*Snapshot, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, ErrUnavailable
	}
	return snap, nil
}

// Search returns records matching the request, ranked by how many distinct
// query tokens they contain and then by ascending identifier. Zero matches
// is a valid, empty result.
func (e *Engine) Search(req Request) (*SearchResult, error) {
	compiled, err := compile(req, true)
	if err != nil {
		return nil, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	type scored struct {
		index int
		score int
	}
	var matches []scored
	for i := range snap.records {
		if !compiled.matchesFilters(&snap.records[i]) {
			continue
		}
		score := 0
		if len(compiled.tokens) > 0 {
			score = snap.matchTokens(i, compiled.tokens)
			if score == 0 {
				continue
			}
		}
		matches = append(matches, scored{index: i, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return snap.records[matches[i].index].ID < snap.records[matches[j].index].ID
	})

	result := &SearchResult{Total: len(matches)}
	start := compiled.offset
	if start > len(matches) {
		start = len(matches)
	}
	end := start + compiled.limit
	if end > len(matches) {
		end = len(matches)
	}
	result.Records = make([]record.PromptRecord, 0, end-start)
	for _, m := range matches[start:end] {
		result.Records = append(result.Records, snap.records[m.index])
	}
	return result, nil
}

// Random returns one uniformly chosen record from the filtered subset, or
// nil when the subset is empty. An empty request draws from the whole
// dataset.
func (e *Engine) Random(req Request) (*record.PromptRecord, error) {
	compiled, err := compile(req, false)
	if err != nil {
		return nil, err
	}
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	var subset []int
	for i := range snap.records {
		if !compiled.matchesFilters(&snap.records[i]) {
			continue
		}
		if len(compiled.tokens) > 0 && snap.matchTokens(i, compiled.tokens) == 0 {
			continue
		}
		subset = append(subset, i)
	}
	if len(subset) == 0 {
		return nil, nil
	}
	chosen := snap.records[subset[e.intn(len(subset))]]
	return &chosen, nil
}

// Stats returns the aggregate snapshot published with the dataset.
func (e *Engine) Stats() (*dataset.Stats, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.stats, nil
}
