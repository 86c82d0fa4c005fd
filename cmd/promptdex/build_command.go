package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"promptdex/internal/dataset"
	"promptdex/internal/pipeline"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var rawDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the dataset from raw capture files",
		Long: `Build runs the full pipeline: every capture file under the raw directory is
cleaned, screened for quality, deduplicated, and classified, then the result
replaces the published dataset atomically. Rebuilding from unchanged captures
produces an identical dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			dir := cfg.Paths.RawDir
			if rawDir != "" {
				dir = rawDir
			}

			started := time.Now()
			result, err := pipeline.Run(cmd.Context(), pipeline.Options{
				RawDir:        dir,
				MinTextLength: cfg.Pipeline.MinTextLength,
				Workers:       cfg.Pipeline.Workers,
			}, logger)
			if err != nil {
				return fmt.Errorf("pipeline: %w", err)
			}

			writer := dataset.NewWriter(cfg.Paths.DatasetDir, logger)
			err = writer.Publish(cmd.Context(), result.Records, dataset.Manifest{
				Sources:  result.Sources,
				Counters: countersMap(result.Counters),
			})
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}

			return printBuildSummary(cmd, ctx, result, time.Since(started))
		},
	}

	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "Read captures from this directory instead of the configured one")
	return cmd
}

func countersMap(c pipeline.Counters) map[string]int {
	return map[string]int{
		"source_files":   c.SourceFiles,
		"raw_records":    c.RawRecords,
		"malformed":      c.Malformed,
		"low_quality":    c.LowQuality,
		"duplicates":     c.Duplicates,
		"unclassifiable": c.Unclassifiable,
		"accepted":       c.Accepted,
	}
}

func printBuildSummary(cmd *cobra.Command, ctx *commandContext, result *pipeline.Result, elapsed time.Duration) error {
	if ctx.jsonOutput() || !stdoutIsTerminal() {
		return writeJSON(cmd, struct {
			Counters pipeline.Counters `json:"counters"`
			Sources  map[string]int    `json:"sources"`
			Elapsed  string            `json:"elapsed"`
		}{result.Counters, result.Sources, elapsed.Round(time.Millisecond).String()})
	}

	c := result.Counters
	rows := [][]string{
		{"Source files", strconv.Itoa(c.SourceFiles)},
		{"Raw records", strconv.Itoa(c.RawRecords)},
		{"Malformed files", strconv.Itoa(c.Malformed)},
		{"Low quality", strconv.Itoa(c.LowQuality)},
		{"Duplicates", strconv.Itoa(c.Duplicates)},
		{"Unclassifiable", strconv.Itoa(c.Unclassifiable)},
		{"Accepted", strconv.Itoa(c.Accepted)},
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Stage", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Published %d records in %s\n", c.Accepted, elapsed.Round(time.Millisecond))
	return nil
}
