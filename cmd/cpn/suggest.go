package main

import (
	"errors"
	"fmt"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ranking"
	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var (
		aggregate string
		field     string
		full      bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank departments by admission likelihood",
		Long: `Rank the departments open to a field by admission likelihood for the given CPN.
The first ten are shown unless --full is set.

  cpn suggest --aggregate 70.30 --field pre-engineering`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, err := scoring.ParseAggregate(aggregate)
			if err != nil {
				return errors.New(userMessage(err))
			}

			entries := ranking.Suggest(catalog.Default(), catalog.ParseField(field), agg, !full)
			rows := suggestionRows(entries)

			switch output {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), rows)
			case formatTable:
				return writeSuggestionTable(cmd.OutOrStdout(), rows)
			default:
				return fmt.Errorf("unknown output format %q (use table or json)", output)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&aggregate, "aggregate", "a", "", "CPN aggregate, as printed by calculate")
	flags.StringVarP(&field, "field", "f", string(catalog.FieldGeneral), "Field: pre-engineering, pre-medical or general")
	flags.BoolVar(&full, "full", false, "Show every department instead of the first ten")
	flags.StringVarP(&output, "output", "o", formatTable, "Output format: table or json")

	return cmd
}
