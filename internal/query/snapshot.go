package query

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promptdex/internal/dataset"
	"promptdex/internal/record"
)

// Snapshot is an immutable in-memory view of one published dataset. Engines
// swap whole snapshots; nothing inside one is ever mutated after load.
type Snapshot struct {
	records  []record.PromptRecord
	docs     []searchDoc
	stats    *dataset.Stats
	loadedAt time.Time
}

// searchDoc is the precomputed match surface for one record.
type searchDoc struct {
	lowered string
	tags    []string
}

// LoadSnapshot reads the published dataset under dir ("current" plus its
// stats file) into memory. Any failure is reported as unavailability since
// the caller can do nothing but wait for a publish.
func LoadSnapshot(ctx context.Context, dir string) (*Snapshot, error) {
	current := filepath.Join(dir, dataset.CurrentDir)

	store, err := dataset.Open(filepath.Join(current, dataset.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer store.Close()

	records, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	statsData, err := os.ReadFile(filepath.Join(current, dataset.StatsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: read stats: %v", ErrUnavailable, err)
	}
	var stats dataset.Stats
	if err := json.Unmarshal(statsData, &stats); err != nil {
		return nil, fmt.Errorf("%w: decode stats: %v", ErrUnavailable, err)
	}

	docs := make([]searchDoc, len(records))
	for i, rec := range records {
		doc := searchDoc{lowered: strings.ToLower(rec.Text)}
		for _, tag := range rec.Tags {
			doc.tags = append(doc.tags, strings.ToLower(tag))
		}
		docs[i] = doc
	}

	return &Snapshot{
		records:  records,
		docs:     docs,
		stats:    &stats,
		loadedAt: time.Now().UTC(),
	}, nil
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// LoadedAt reports when the snapshot was read from disk.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// matchTokens counts how many distinct query tokens appear in the record,
// either as a substring of the text or as an exact tag.
func (s *Snapshot) matchTokens(i int, tokens []string) int {
	doc := &s.docs[i]
	matched := 0
	for _, token := range tokens {
		if strings.Contains(doc.lowered, token) {
			matched++
			continue
		}
		for _, tag := range doc.tags {
			if tag == token {
				matched++
				break
			}
		}
	}
	return matched
}
