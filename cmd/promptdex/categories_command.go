package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"promptdex/internal/record"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the fixed category, model, and output type sets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if ctx.jsonOutput() || !stdoutIsTerminal() {
				return writeJSON(cmd, struct {
					Categories  []record.Category   `json:"categories"`
					Models      []string            `json:"models"`
					OutputTypes []record.OutputType `json:"output_types"`
				}{record.Categories(), record.KnownModels(), record.OutputTypes()})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Categories:")
			for _, category := range record.Categories() {
				fmt.Fprintf(out, "  %s\n", category)
			}
			fmt.Fprintln(out, "\nModels:")
			for _, model := range record.KnownModels() {
				fmt.Fprintf(out, "  %s\n", model)
			}
			fmt.Fprintf(out, "  %s\n", record.AnyPlatformToken)
			fmt.Fprintln(out, "\nOutput types:")
			for _, outputType := range record.OutputTypes() {
				fmt.Fprintf(out, "  %s\n", outputType)
			}
			return nil
		},
	}
}
