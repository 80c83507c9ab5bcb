package main

import (
	"github.com/spf13/cobra"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/mapping"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

func newValidateCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <rules.yaml>",
		Short: "Check a rule file",
		Long: `Check a rule file's structure and every override against the configured
validation limits, and report overrides whose patterns overlap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := mapping.LoadFile(args[0])
			if err != nil {
				return err
			}

			diags := mapping.Validate(rf)

			// Rule-level checks need converted rules; skip them when the
			// structure is already broken.
			if diags.IsValid() {
				rules, err := rf.Overrides()
				if err != nil {
					return err
				}

				opts, err := a.cfg.EngineOptions()
				if err != nil {
					return err
				}

				e := override.NewEngine(append(opts, override.WithLogger(a.logger))...)
				diags.Merge(*e.ValidateSet(rules))
			}

			if asJSON {
				if err := renderJSON(cmd.OutOrStdout(), diagnosticsJSON(diags)); err != nil {
					return err
				}
			} else {
				renderDiagnostics(cmd.OutOrStdout(), diags)
			}

			return diagnosticsError(diags)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as JSON")

	return cmd
}

type diagnosticJSON struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Rule        string   `json:"rule,omitempty"`
	Column      string   `json:"column,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func diagnosticsJSON(d *diagnostic.Diagnostics) []diagnosticJSON {
	out := make([]diagnosticJSON, 0, len(d.All()))
	for _, diag := range d.All() {
		out = append(out, diagnosticJSON{
			Severity:    diag.Severity.String(),
			Code:        diag.Code,
			Rule:        diag.Rule,
			Column:      diag.Column,
			Message:     diag.Message,
			Suggestions: diag.Suggestions,
		})
	}

	return out
}
