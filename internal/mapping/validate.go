package mapping

import (
	"fmt"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// Validate checks the structure of a rule file: schema version, catalog
// entries and the names used by overrides. Semantic rule checks (lengths,
// priorities, regex compilation) belong to override.Validator.
func Validate(rf *RuleFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError("rule_file_is_nil", "rule file is nil", "", "")
		return res
	}

	if rf.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported rule file version %q (want %q)", rf.Version, CurrentVersion), "", "")
	}

	targets := validateFields(res, rf.Fields)
	validateOverrides(res, rf.Overrides, targets)

	return res
}

// validateFields checks the catalog and returns its field definitions.
func validateFields(res *diagnostic.Diagnostics, fields []FieldSpec) []match.FieldDef {
	seenTargets := map[string]struct{}{}
	seenColumns := map[string]string{}
	defs := make([]match.FieldDef, 0, len(fields))

	for i := range fields {
		f := &fields[i]

		if f.Target == "" {
			res.AddError("missing_target", fmt.Sprintf("field #%d must specify target", i+1), "", "")
			continue
		}

		if _, ok := seenTargets[f.Target]; ok {
			res.AddError("duplicate_target", fmt.Sprintf("duplicate field target %q", f.Target), "", f.Target)
			continue
		}

		seenTargets[f.Target] = struct{}{}

		if _, ok := match.ParseSourceType(f.SourceType); !ok {
			res.AddError("invalid_source_type",
				fmt.Sprintf("field %q: unknown source_type %q", f.Target, f.SourceType), "", f.Target)
		}

		if f.Columns.IsEmpty() {
			res.AddWarning("no_columns",
				fmt.Sprintf("field %q lists no columns; only fuzzy matching on the target name applies", f.Target),
				"", f.Target)
		}

		for _, col := range f.Columns {
			key := match.FoldHeader(col)
			if owner, ok := seenColumns[key]; ok && owner != f.Target {
				res.AddWarning("duplicate_column",
					fmt.Sprintf("column %q is listed for both %q and %q; the first wins", col, owner, f.Target),
					"", col)

				continue
			}

			seenColumns[key] = f.Target
		}

		defs = append(defs, match.FieldDef{Target: f.Target, Columns: []string{f.Target}})
	}

	return defs
}

func validateOverrides(res *diagnostic.Diagnostics, overrides []OverrideSpec, targets []match.FieldDef) {
	seenIDs := map[string]struct{}{}

	for i := range overrides {
		o := &overrides[i]

		label := o.Label()
		if label == "" {
			label = fmt.Sprintf("override #%d", i+1)
		}

		if o.ID != "" {
			if _, ok := seenIDs[o.ID]; ok {
				res.AddError("duplicate_id", fmt.Sprintf("duplicate override id %q", o.ID), label, o.Pattern)
			}

			seenIDs[o.ID] = struct{}{}
		}

		if o.Pattern == "" {
			res.AddError("missing_pattern", "override must specify pattern", label, "")
		}

		if o.Target == "" {
			res.AddError("missing_target", "override must specify target", label, o.Pattern)
		} else {
			validateTargetKnown(res, label, o, targets)
		}

		if _, err := override.ParseOverrideType(o.Type); err != nil {
			res.AddError("invalid_type", err.Error(), label, o.Pattern)
		}

		if _, err := override.NewScope(o.Scope.Kind, o.Scope.ID); err != nil {
			res.AddError("invalid_scope", err.Error(), label, o.Pattern)
		}

		if o.Threshold != nil && o.Type != "fuzzy" && o.Type != "fuzzy_match" {
			res.AddWarning("unused_threshold", "threshold only applies to fuzzy overrides", label, o.Pattern)
		}

		for j := range o.Conditions {
			validateCondition(res, label, j, &o.Conditions[j])
		}
	}
}

func validateCondition(res *diagnostic.Diagnostics, label string, j int, c *ConditionSpec) {
	where := fmt.Sprintf("condition %d", j+1)

	if _, err := override.ParseConditionType(c.Type); err != nil {
		res.AddError("invalid_condition_type", fmt.Sprintf("%s: %v", where, err), label, "")
	}

	if _, err := override.ParseOperator(c.Operator); err != nil {
		res.AddError("invalid_operator", fmt.Sprintf("%s: %v", where, err), label, "")
	}

	if !c.Value.Set {
		res.AddError("missing_value", where+": value is required", label, "")
	}
}

// validateTargetKnown warns when an override targets a field missing from a
// non-empty catalog, suggesting the closest catalog targets.
func validateTargetKnown(res *diagnostic.Diagnostics, label string, o *OverrideSpec, targets []match.FieldDef) {
	if len(targets) == 0 {
		return
	}

	for _, t := range targets {
		if t.Target == o.Target {
			return
		}
	}

	var suggestions []string
	for _, c := range match.RankCandidates(o.Target, targets).AboveThreshold(0.5).Top(3) {
		suggestions = append(suggestions, c.Field.Target)
	}

	res.AddWarning("unknown_target",
		fmt.Sprintf("target %q is not in the field catalog", o.Target), label, o.Pattern, suggestions...)
}
