package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

type contextFlags struct {
	docType  string
	file     string
	user     string
	org      string
	project  string
	metadata map[string]string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.docType, "doc-type", "", "document type (inventory|poam|ssp_section|custom)")
	fs.StringVar(&f.file, "file", "", "source file name for file_pattern scopes and conditions")
	fs.StringVar(&f.user, "user", "", "user id for user scopes")
	fs.StringVar(&f.org, "org", "", "organization id for organization scopes")
	fs.StringVar(&f.project, "project", "", "project id for project scopes")
	fs.StringToStringVar(&f.metadata, "meta", nil, "metadata key=value pairs for metadata conditions")
}

func (f *contextFlags) context() override.Context {
	ctx := override.NewContext(f.docType)

	if f.file != "" {
		ctx = ctx.WithFileName(f.file)
	}

	if f.user != "" {
		ctx = ctx.WithUser(f.user)
	}

	if f.org != "" {
		ctx = ctx.WithOrganization(f.org)
	}

	if f.project != "" {
		ctx = ctx.WithProject(f.project)
	}

	for k, v := range f.metadata {
		ctx = ctx.WithMetadata(k, v)
	}

	return ctx
}

type resolutionJSON struct {
	Column     string   `json:"column"`
	Applied    bool     `json:"applied"`
	OverrideID string   `json:"override_id,omitempty"`
	Target     string   `json:"target,omitempty"`
	Confidence float64  `json:"confidence"`
	Conflicts  []string `json:"conflicts,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		cf     contextFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <rules.yaml> <column>...",
		Short: "Resolve override rules for column names",
		Long: `Resolve override rules for each column name. The columns are also used as
the document headers, so header conditions and position constraints see them
in the order given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := a.loadRules(args[0])
			if err != nil {
				return err
			}

			e, _, err := a.newEngine(rf)
			if err != nil {
				return err
			}

			columns := args[1:]
			ctx := cf.context().WithHeaders(columns...)

			out := make([]resolutionJSON, 0, len(columns))

			for _, col := range columns {
				res := e.ResolveOverride(col, ctx)

				r := resolutionJSON{
					Column:     col,
					Applied:    res.OverrideApplied,
					Target:     res.TargetField,
					Confidence: res.Confidence,
				}

				if res.AppliedOverride != nil {
					r.OverrideID = res.AppliedOverride.ID
				}

				for _, c := range res.Conflicts {
					r.Conflicts = append(r.Conflicts, fmt.Sprintf("%s %s: %s", c.Severity, c.Type, c.Description))
				}

				out = append(out, r)
			}

			m := e.Metrics()
			a.logger.Debug("resolution metrics",
				zap.Uint64("applications", m.TotalApplications),
				zap.Uint64("matches", m.SuccessfulMatches),
				zap.Uint64("conflicts", m.ConflictsEncountered))

			if asJSON {
				return renderJSON(cmd.OutOrStdout(), out)
			}

			t := newTable(cmd.OutOrStdout(), "Column", "Applied", "Override", "Target", "Confidence", "Conflicts")
			for _, r := range out {
				t.AppendRow(table.Row{
					r.Column, r.Applied, r.OverrideID, r.Target, formatConfidence(r.Confidence),
					strings.Join(r.Conflicts, "\n"),
				})
			}

			t.Render()

			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}
