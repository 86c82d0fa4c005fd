package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"promptdex/internal/query"
	"promptdex/internal/record"
)

func newRandomCommand(ctx *commandContext) *cobra.Command {
	var (
		category   string
		model      string
		outputType string
	)

	cmd := &cobra.Command{
		Use:   "random [query words]",
		Short: "Pick one random record, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.loadedEngine(cmd.Context())
			if err != nil {
				return err
			}

			rec, err := engine.Random(query.Request{
				Query:      strings.Join(args, " "),
				Category:   category,
				Model:      model,
				OutputType: outputType,
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() || !stdoutIsTerminal() {
				return writeJSON(cmd, struct {
					Record *record.PromptRecord `json:"record"`
				}{rec})
			}
			if rec == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No records match the given filters.")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rec.Text)
			fmt.Fprintf(out, "\n[#%d  %s  %s  %s  from %s]\n", rec.ID, rec.Category, rec.Model, rec.OutputType, rec.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Restrict to one category")
	cmd.Flags().StringVar(&model, "model", "", "Restrict to one model")
	cmd.Flags().StringVar(&outputType, "type", "", "Restrict to one output type")
	return cmd
}
