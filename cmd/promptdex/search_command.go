package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promptdex/internal/query"
	"promptdex/internal/record"
)

const promptColumnWidth = 60

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		category   string
		model      string
		outputType string
		limit      int
		offset     int
		full       bool
	)

	cmd := &cobra.Command{
		Use:   "search [query words]",
		Short: "Search the published dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.loadedEngine(cmd.Context())
			if err != nil {
				return err
			}

			result, err := engine.Search(query.Request{
				Query:      strings.Join(args, " "),
				Category:   category,
				Model:      model,
				OutputType: outputType,
				Limit:      limit,
				Offset:     offset,
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() || !stdoutIsTerminal() {
				return writeJSON(cmd, result)
			}
			printRecordTable(cmd, result.Records, full)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d matching records\n", len(result.Records), result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Restrict to one category")
	cmd.Flags().StringVar(&model, "model", "", "Restrict to one model ("+record.AnyPlatformToken+" for platform-agnostic prompts)")
	cmd.Flags().StringVar(&outputType, "type", "", "Restrict to one output type (image, video, text, generator)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	cmd.Flags().BoolVar(&full, "full", false, "Show full prompt text instead of truncating")
	return cmd
}

func printRecordTable(cmd *cobra.Command, records []record.PromptRecord, full bool) {
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching records.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		text := rec.Text
		if !full {
			text = truncate(text, promptColumnWidth)
		}
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			string(rec.Category),
			rec.Model.String(),
			string(rec.OutputType),
			text,
		})
	}
	headers := []string{"ID", "Category", "Model", "Type", "Prompt"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
}
