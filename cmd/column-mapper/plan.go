package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/plan"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		cf          contextFlags
		headers     []string
		asJSON      bool
		exportPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "plan <rules.yaml> [document.csv]...",
		Short: "Map every column of one or more documents",
		Long: `Map every column of each document: overrides first, then exact catalog
aliases, then fuzzy matches. Documents are CSV files whose first row holds the
headers, or a single ad-hoc header list given with --headers.

With --export, fuzzy and unmapped columns are written as a rule file of
suggested overrides for review.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args[1:]
			if len(files) == 0 && len(headers) == 0 {
				return errors.WithHint(errors.New("nothing to plan"), "pass CSV files or --headers")
			}

			rf, err := a.loadRules(args[0])
			if err != nil {
				return err
			}

			e, mapper, err := a.newEngine(rf)
			if err != nil {
				return err
			}

			pcfg := plan.DefaultConfig()
			if concurrency > 0 {
				pcfg.Concurrency = concurrency
			}

			base := cf.context()

			var docs []plan.Document

			if len(headers) > 0 {
				name := cf.file
				if name == "" {
					name = "headers"
				}

				docs = append(docs, plan.Document{Name: name, Context: base.WithHeaders(headers...)})
			}

			for _, path := range files {
				doc, err := readCSVDocument(path, base)
				if err != nil {
					return err
				}

				docs = append(docs, doc)
			}

			plans, err := plan.NewPlanner(mapper, e, pcfg, a.logger).PlanDocuments(cmd.Context(), docs)
			if err != nil {
				return err
			}

			if exportPath != "" {
				data, err := plan.ExportSuggestionsYAML(plans...)
				if err != nil {
					return errors.Wrap(err, "export suggestions")
				}

				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", exportPath)
				}
			}

			var all diagnostic.Diagnostics
			for _, p := range plans {
				all.Merge(p.Diagnostics)
			}

			if asJSON {
				if err := renderJSON(cmd.OutOrStdout(), plansJSON(plans)); err != nil {
					return err
				}
			} else {
				for _, p := range plans {
					renderPlan(cmd.OutOrStdout(), p)
				}
			}

			return diagnosticsError(&all)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringSliceVar(&headers, "headers", nil, "comma-separated header list to plan as one document")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print plans as JSON")
	cmd.Flags().StringVar(&exportPath, "export", "", "write suggested overrides to this rule file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "documents planned in parallel (default 4)")

	return cmd
}

func renderPlan(w io.Writer, p *plan.DocumentPlan) {
	_, _ = fmt.Fprintf(w, "%s (%s)\n", p.Document, orDash(p.DocumentType))

	t := newTable(w, "#", "Column", "Target", "Origin", "Confidence", "Override", "Required")
	for i, c := range p.Columns {
		t.AppendRow(table.Row{
			i, c.SourceColumn, orDash(c.TargetField), c.Origin, formatConfidence(c.Confidence),
			c.OverrideID, c.Required,
		})
	}

	t.Render()
	renderDiagnostics(w, &p.Diagnostics)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

type planJSON struct {
	Document        string           `json:"document"`
	DocumentType    string           `json:"document_type,omitempty"`
	Columns         []columnJSON     `json:"columns"`
	MissingRequired []string         `json:"missing_required,omitempty"`
	Diagnostics     []diagnosticJSON `json:"diagnostics,omitempty"`
}

type columnJSON struct {
	Column      string   `json:"column"`
	Target      string   `json:"target,omitempty"`
	Origin      string   `json:"origin"`
	Confidence  float64  `json:"confidence"`
	OverrideID  string   `json:"override_id,omitempty"`
	SourceType  string   `json:"source_type,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Candidates  []string `json:"candidates,omitempty"`
}

func plansJSON(plans []*plan.DocumentPlan) []planJSON {
	out := make([]planJSON, 0, len(plans))

	for _, p := range plans {
		pj := planJSON{
			Document:        p.Document,
			DocumentType:    p.DocumentType,
			Columns:         make([]columnJSON, 0, len(p.Columns)),
			MissingRequired: p.MissingRequired,
			Diagnostics:     diagnosticsJSON(&p.Diagnostics),
		}

		for _, c := range p.Columns {
			cj := columnJSON{
				Column:      c.SourceColumn,
				Target:      c.TargetField,
				Origin:      c.Origin.String(),
				Confidence:  c.Confidence,
				OverrideID:  c.OverrideID,
				Required:    c.Required,
				Explanation: c.Explanation,
			}

			if c.TargetField != "" {
				cj.SourceType = c.SourceType.String()
			}

			for _, cand := range c.Candidates {
				cj.Candidates = append(cj.Candidates, cand.Field.Target)
			}

			pj.Columns = append(pj.Columns, cj)
		}

		out = append(out, pj)
	}

	return out
}
