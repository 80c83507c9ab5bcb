package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	return t
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func renderDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	all := d.All()
	if len(all) == 0 {
		_, _ = fmt.Fprintln(w, "no problems found")
		return
	}

	t := newTable(w, "Severity", "Code", "Rule", "Column", "Message", "Suggestions")
	for _, diag := range all {
		t.AppendRow(table.Row{
			diag.Severity, diag.Code, diag.Rule, diag.Column, diag.Message, strings.Join(diag.Suggestions, ", "),
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d errors, %d warnings, %d infos)\n", len(d.Errors), len(d.Warnings), len(d.Infos))
}

func formatConfidence(c float64) string {
	if c == 0 {
		return "-"
	}

	return fmt.Sprintf("%.2f", c)
}
