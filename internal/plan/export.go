package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Elevated-Standards/mappings-sub003/internal/mapping"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// SuggestedTag marks overrides produced by ExportSuggestions.
const SuggestedTag = "suggested"

// ExportSuggestions generates a rule file from plans so reviewers can pin
// mappings. Fuzzy matches become active exact overrides; unmapped columns
// with a candidate become inactive overrides targeting the best candidate.
// Override and exact-alias columns are already pinned and are skipped.
func ExportSuggestions(plans ...*DocumentPlan) *mapping.RuleFile {
	rf := &mapping.RuleFile{Version: mapping.CurrentVersion}
	seen := map[string]struct{}{}

	for _, dp := range plans {
		if dp == nil {
			continue
		}

		for i := range dp.Columns {
			spec, ok := exportColumn(dp, &dp.Columns[i])
			if !ok {
				continue
			}

			if _, dup := seen[spec.ID]; dup {
				continue
			}

			seen[spec.ID] = struct{}{}
			rf.Overrides = append(rf.Overrides, spec)
		}
	}

	return rf
}

// ExportSuggestionsYAML generates suggested YAML as a byte slice.
func ExportSuggestionsYAML(plans ...*DocumentPlan) ([]byte, error) {
	return yaml.Marshal(ExportSuggestions(plans...))
}

func exportColumn(dp *DocumentPlan, c *ColumnPlan) (mapping.OverrideSpec, bool) {
	var (
		target string
		active bool
	)

	switch c.Origin {
	case override.OriginFuzzy:
		target, active = c.TargetField, true
	case override.OriginUnmapped:
		best := c.Candidates.Best()
		if best == nil {
			return mapping.OverrideSpec{}, false
		}

		target = best.Field.Target
	default:
		return mapping.OverrideSpec{}, false
	}

	scope := mapping.ScopeSpec{Kind: "global"}
	idPrefix := "global"

	if dp.DocumentType != "" {
		scope = mapping.ScopeSpec{Kind: "document_type", ID: dp.DocumentType}
		idPrefix = dp.DocumentType
	}

	spec := mapping.OverrideSpec{
		ID:          fmt.Sprintf("%s-%s", idPrefix, match.NormalizeIdent(c.SourceColumn)),
		Name:        fmt.Sprintf("%s to %s", c.SourceColumn, target),
		Description: c.Explanation,
		Pattern:     c.SourceColumn,
		Type:        override.MatchExact.String(),
		Scope:       scope,
		Target:      target,
		Tags:        mapping.StringOrArray{SuggestedTag},
	}

	if !active {
		spec.Active = &active
	}

	return spec, true
}
