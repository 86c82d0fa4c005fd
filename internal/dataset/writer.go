package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"promptdex/internal/logging"
	"promptdex/internal/record"
)

// Published dataset layout inside the dataset directory.
const (
	CurrentDir   = "current"
	ShardsDir    = "shards"
	StatsFile    = "stats.json"
	ManifestFile = "manifest.json"

	publishLockFile = ".publish.lock"
	stagingPrefix   = ".staging-"
	retiredPrefix   = ".old-"
)

// Manifest records what a dataset was built from. Checksum identifies the
// record set, so identical input always publishes byte-identical artifacts;
// no wall-clock field belongs here.
type Manifest struct {
	Checksum string         `json:"checksum"`
	Records  int            `json:"records"`
	Sources  map[string]int `json:"sources,omitempty"`
	Counters map[string]int `json:"counters,omitempty"`
}

// Writer publishes record sets into a dataset directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter returns a writer rooted at the dataset directory.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logging.WithComponent(logger, "dataset")}
}

// AssignIDs orders the record set by category (in canonical order) and then
// fingerprint, and numbers it 1..N. The same record set always receives the
// same identifiers no matter what order the pipeline produced it in.
func AssignIDs(records []record.PromptRecord) []record.PromptRecord {
	ordered := make([]record.PromptRecord, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Category != ordered[j].Category {
			return ordered[i].Category.Index() < ordered[j].Category.Index()
		}
		return ordered[i].Fingerprint < ordered[j].Fingerprint
	})
	for i := range ordered {
		ordered[i].ID = int64(i + 1)
	}
	return ordered
}

// Publish builds the complete dataset layout in a staging directory and
// swaps it in as "current". On any failure the previously published dataset
// stays in place.
func (w *Writer) Publish(ctx context.Context, records []record.PromptRecord, manifest Manifest) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dataset dir: %v", ErrWriteFailed, err)
	}

	lock := flock.New(filepath.Join(w.dir, publishLockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: acquire publish lock: %v", ErrWriteFailed, err)
	}
	if !locked {
		return ErrPublishLocked
	}
	defer func() { _ = lock.Unlock() }()

	w.removeStaleDirs()

	ordered := AssignIDs(records)
	manifest.Checksum = recordSetChecksum(ordered)
	manifest.Records = len(ordered)

	staging := filepath.Join(w.dir, stagingPrefix+uuid.NewString())
	if err := w.buildStaging(ctx, staging, ordered, manifest); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := w.swapCurrent(staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	w.logger.Info("dataset published",
		logging.String("dir", filepath.Join(w.dir, CurrentDir)),
		logging.Int("records", len(ordered)))
	return nil
}

// recordSetChecksum hashes the ordered fingerprints so the same record set
// always yields the same manifest.
func recordSetChecksum(records []record.PromptRecord) string {
	h := sha256.New()
	for _, rec := range records {
		h.Write([]byte(rec.Fingerprint))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (w *Writer) buildStaging(ctx context.Context, staging string, records []record.PromptRecord, manifest Manifest) error {
	if err := os.MkdirAll(filepath.Join(staging, ShardsDir), 0o755); err != nil {
		return fmt.Errorf("%w: create staging: %v", ErrWriteFailed, err)
	}

	store, err := Create(filepath.Join(staging, DatabaseFile))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := store.InsertRecords(ctx, records); err != nil {
		_ = store.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("%w: close database: %v", ErrWriteFailed, err)
	}

	if err := w.writeShards(staging, records); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(staging, StatsFile), ComputeStats(records)); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(staging, ManifestFile), manifest); err != nil {
		return err
	}
	return nil
}

// writeShards emits one JSON file per category that has records, in
// canonical category order.
func (w *Writer) writeShards(staging string, records []record.PromptRecord) error {
	byCategory := make(map[record.Category][]record.PromptRecord)
	for _, rec := range records {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}
	for _, category := range record.Categories() {
		shard := byCategory[category]
		if len(shard) == 0 {
			continue
		}
		path := filepath.Join(staging, ShardsDir, string(category)+".json")
		if err := writeJSONFile(path, shard); err != nil {
			return err
		}
	}
	return nil
}

// swapCurrent replaces the published dataset with the staged one. If moving
// the staged directory in fails, the retired dataset is restored.
func (w *Writer) swapCurrent(staging string) error {
	current := filepath.Join(w.dir, CurrentDir)
	retired := filepath.Join(w.dir, retiredPrefix+uuid.NewString())

	hadCurrent := true
	if _, err := os.Stat(current); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: stat current: %v", ErrWriteFailed, err)
		}
		hadCurrent = false
	}

	if hadCurrent {
		if err := os.Rename(current, retired); err != nil {
			return fmt.Errorf("%w: retire current: %v", ErrWriteFailed, err)
		}
	}
	if err := os.Rename(staging, current); err != nil {
		if hadCurrent {
			if restoreErr := os.Rename(retired, current); restoreErr != nil {
				w.logger.Error("restore of previous dataset failed",
					logging.String("retired", retired), logging.Error(restoreErr))
			}
		}
		return fmt.Errorf("%w: activate staging: %v", ErrWriteFailed, err)
	}
	if hadCurrent {
		if err := os.RemoveAll(retired); err != nil {
			w.logger.Warn("could not remove retired dataset", logging.String("dir", retired), logging.Error(err))
		}
	}
	return nil
}

// removeStaleDirs clears staging or retired directories abandoned by a
// crashed publish. The lock is already held at this point.
func (w *Writer) removeStaleDirs() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(name, stagingPrefix) || strings.HasPrefix(name, retiredPrefix) {
			stale := filepath.Join(w.dir, name)
			if err := os.RemoveAll(stale); err != nil {
				w.logger.Warn("could not remove stale dir", logging.String("dir", stale), logging.Error(err))
			}
		}
	}
}

func writeJSONFile(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWriteFailed, filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrWriteFailed, filepath.Base(path), err)
	}
	return nil
}
