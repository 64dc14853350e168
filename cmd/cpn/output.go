package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Muhammadkaif97/cpn-calculator/internal/eligibility"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ranking"
	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
	"github.com/olekukonko/tablewriter"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
)

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

type suggestionRow struct {
	Rank       int      `json:"rank"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Likelihood string   `json:"likelihood"`
	Rule       string   `json:"rule"`
	ClosingCPN *float64 `json:"min_cpn,omitempty"`
}

func suggestionRows(entries []ranking.Entry) []suggestionRow {
	rows := make([]suggestionRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, suggestionRow{
			Rank:       i + 1,
			Name:       e.Department.Name,
			Category:   string(e.Department.Category),
			Likelihood: e.Likelihood.String(),
			Rule:       eligibility.RuleFor(e.Department).Name,
			ClosingCPN: e.Department.MinimumThreshold,
		})
	}
	return rows
}

func writeSuggestionTable(w io.Writer, rows []suggestionRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No departments found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Department", "Category", "Chance", "Rule", "Closing CPN")
	for _, r := range rows {
		closing := "-"
		if r.ClosingCPN != nil {
			closing = scoring.FormatAggregate(*r.ClosingCPN)
		}
		if err := table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Name,
			r.Category,
			r.Likelihood,
			r.Rule,
			closing,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// userMessage returns the text a user should see for err.
func userMessage(err error) string {
	var ve *scoring.ValidationError
	if stderrors.As(err, &ve) {
		return ve.Message
	}
	var missing *scoring.MissingScoreError
	if stderrors.As(err, &missing) {
		return missing.UserMessage()
	}
	return err.Error()
}
