// Package pipeline turns raw capture files into a deduplicated, classified
// record set ready for publishing.
//
// Capture files are processed concurrently, one worker per file, but the
// dedup merge runs as a single pass over the per-file batches in sorted file
// order. The first occurrence of a fingerprint wins, so a rerun over the same
// raw directory always yields the same records in the same order.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"promptdex/internal/classify"
	"promptdex/internal/logging"
	"promptdex/internal/normalize"
	"promptdex/internal/rawsource"
	"promptdex/internal/record"
)

// Options configures a pipeline run.
type Options struct {
	RawDir        string
	MinTextLength int
	Workers       int
}

// Counters tallies what happened to every raw record during a run.
type Counters struct {
	SourceFiles    int `json:"source_files"`
	RawRecords     int `json:"raw_records"`
	Malformed      int `json:"malformed"`
	LowQuality     int `json:"low_quality"`
	Duplicates     int `json:"duplicates"`
	Unclassifiable int `json:"unclassifiable"`
	Accepted       int `json:"accepted"`
}

// Result is the output of a run. Records carry a zero ID; identifiers are
// assigned at publish time.
type Result struct {
	Records  []record.PromptRecord
	Counters Counters
	// Sources maps source name to the number of accepted records it
	// contributed.
	Sources map[string]int
}

type sourceBatch struct {
	sourceName string
	candidates []record.PromptRecord
	counters   Counters
}

// Run executes the full extract pipeline over opts.RawDir.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	log := logging.WithComponent(logger, "pipeline")

	classifier, err := classify.NewClassifier()
	if err != nil {
		return nil, err
	}
	filter := normalize.NewFilter(opts.MinTextLength)

	files, err := rawsource.ListFiles(opts.RawDir)
	if err != nil {
		return nil, err
	}
	log.Info("pipeline run starting",
		logging.String("raw_dir", opts.RawDir),
		logging.Int("files", len(files)))

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	batches := make([]*sourceBatch, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			batches[i] = processFile(file, classifier, filter, log)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := mergeBatches(batches)
	result.Counters.SourceFiles = len(files)
	log.Info("pipeline run finished",
		logging.Int("raw", result.Counters.RawRecords),
		logging.Int("accepted", result.Counters.Accepted),
		logging.Int("duplicates", result.Counters.Duplicates),
		logging.Int("low_quality", result.Counters.LowQuality),
		logging.Int("unclassifiable", result.Counters.Unclassifiable))
	return result, nil
}

// processFile cleans, screens, and classifies every record of one capture
// file. Dedup is deferred to the merge pass so concurrency cannot affect
// which duplicate survives.
func processFile(path string, classifier *classify.Classifier, filter *normalize.Filter, log *slog.Logger) *sourceBatch {
	batch := &sourceBatch{}

	src, err := rawsource.LoadFile(path)
	if err != nil {
		log.Warn("skipping malformed capture", logging.String("file", path), logging.Error(err))
		batch.counters.Malformed++
		return batch
	}
	batch.sourceName = src.Name

	defaultType, _ := record.ParseOutputType(src.DefaultType)

	for _, raw := range src.Records {
		batch.counters.RawRecords++

		text := normalize.CleanText(raw.Text)
		if reason := filter.Check(text); reason != normalize.RejectNone {
			batch.counters.LowQuality++
			log.Debug("rejected record",
				logging.String("source", src.Name),
				logging.String("reason", reason.String()))
			continue
		}

		verdict := classifier.Classify(text, classify.SourceHints{
			DeclaredType:  raw.Type,
			DeclaredModel: raw.Model,
			DefaultType:   defaultType,
		})
		if verdict.Unclassified {
			batch.counters.Unclassifiable++
		}

		batch.candidates = append(batch.candidates, record.PromptRecord{
			Text:        text,
			Category:    verdict.Category,
			Model:       verdict.Model,
			OutputType:  verdict.OutputType,
			Tags:        cleanTags(raw.Tags),
			Source:      src.Name,
			Fingerprint: normalize.Fingerprint(text),
		})
	}
	return batch
}

// mergeBatches folds per-file batches into one record set. It owns the
// global fingerprint index; batches arrive in sorted file order, so the
// earliest occurrence of a duplicate is the one kept.
func mergeBatches(batches []*sourceBatch) *Result {
	result := &Result{Sources: make(map[string]int)}
	seen := make(map[string]struct{})

	for _, batch := range batches {
		if batch == nil {
			continue
		}
		addCounters(&result.Counters, batch.counters)
		for _, cand := range batch.candidates {
			if _, dup := seen[cand.Fingerprint]; dup {
				result.Counters.Duplicates++
				continue
			}
			seen[cand.Fingerprint] = struct{}{}
			result.Records = append(result.Records, cand)
			result.Sources[cand.Source]++
			result.Counters.Accepted++
		}
	}
	return result
}

func addCounters(total *Counters, part Counters) {
	total.RawRecords += part.RawRecords
	total.Malformed += part.Malformed
	total.LowQuality += part.LowQuality
	total.Unclassifiable += part.Unclassifiable
}

func cleanTags(tags []string) []string {
	var cleaned []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}
