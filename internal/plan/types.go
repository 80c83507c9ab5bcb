package plan

import (
	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// Document is one input to the planner.
type Document struct {
	// Name identifies the document in plans and logs, usually the file name.
	Name string
	// Context carries the document type, headers and the other facts
	// override scopes and conditions are evaluated against.
	Context override.Context
}

// DocumentPlan is the mapping decision for every column of one document.
type DocumentPlan struct {
	Document     string
	DocumentType string
	// Columns holds one entry per header, in header order.
	Columns []ColumnPlan
	// MissingRequired lists required catalog targets no column maps to.
	MissingRequired []string
	Diagnostics     diagnostic.Diagnostics
}

// ColumnPlan is the merged mapping for one column plus review hints.
type ColumnPlan struct {
	override.MergedMapping
	// Candidates are the closest catalog targets for unmapped or
	// low-confidence columns.
	Candidates match.CandidateList
	// Explanation describes why this mapping was chosen.
	Explanation string
}

// Mapped returns the columns that received a target.
func (p *DocumentPlan) Mapped() []ColumnPlan {
	var out []ColumnPlan

	for _, c := range p.Columns {
		if c.TargetField != "" {
			out = append(out, c)
		}
	}

	return out
}

// Unmapped returns the source columns that received no target.
func (p *DocumentPlan) Unmapped() []string {
	var out []string

	for _, c := range p.Columns {
		if c.TargetField == "" {
			out = append(out, c.SourceColumn)
		}
	}

	return out
}

// Column returns the plan entry for a source column.
func (p *DocumentPlan) Column(source string) (ColumnPlan, bool) {
	for _, c := range p.Columns {
		if c.SourceColumn == source {
			return c, true
		}
	}

	return ColumnPlan{}, false
}
