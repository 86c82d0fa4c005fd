package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"promptdex/internal/record"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate counts for the published dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.loadedEngine(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := engine.Stats()
			if err != nil {
				return err
			}

			if ctx.jsonOutput() || !stdoutIsTerminal() {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total records: %d\n\n", stats.Total)

			var categoryRows [][]string
			for _, category := range record.Categories() {
				if count := stats.ByCategory[category]; count > 0 {
					categoryRows = append(categoryRows, []string{string(category), strconv.Itoa(count)})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Category", "Records"}, categoryRows, []columnAlignment{alignLeft, alignRight}))

			fmt.Fprintln(out, renderTable([]string{"Model", "Records"}, sortedCountRows(stats.ByModel), []columnAlignment{alignLeft, alignRight}))

			typeRows := make(map[string]int, len(stats.ByType))
			for outputType, count := range stats.ByType {
				typeRows[string(outputType)] = count
			}
			fmt.Fprintln(out, renderTable([]string{"Type", "Records"}, sortedCountRows(typeRows), []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

// sortedCountRows orders by descending count, then name, for stable output.
func sortedCountRows(counts map[string]int) [][]string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return rows
}
