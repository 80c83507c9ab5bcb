package override

import (
	"fmt"
)

// DetectConflicts compares a candidate rule with already admitted rules.
//
// A rule reusing an admitted id yields a critical DuplicateID conflict. A rule
// with the same pattern text and scope as an admitted rule but a different
// target yields a PatternOverlap conflict of medium severity. The relation is
// symmetric: swapping candidate and existing rule reports the same pair.
func DetectConflicts(candidate *MappingOverride, existing []MappingOverride) []Conflict {
	var conflicts []Conflict

	for i := range existing {
		e := &existing[i]

		switch {
		case e.ID == candidate.ID:
			conflicts = append(conflicts, newConflict(DuplicateID, SeverityCritical,
				fmt.Sprintf("override id %s is already in use by %q", e.ID, e.Name),
				"assign a new id or remove the existing override first",
				e.ID, candidate.ID))
		case overlaps(e, candidate):
			conflicts = append(conflicts, newConflict(PatternOverlap, SeverityMedium,
				fmt.Sprintf("pattern %q in scope %s maps to both %q and %q",
					candidate.Pattern.Text, candidate.Scope, e.TargetField, candidate.TargetField),
				"adjust pattern specificity or priority",
				e.ID, candidate.ID))
		}
	}

	return conflicts
}

func newConflict(t ConflictType, sev Severity, desc, hint string, ids ...string) Conflict {
	return Conflict{
		OverrideIDs:         ids,
		Type:                t,
		Severity:            sev,
		Description:         desc,
		SuggestedResolution: hint,
	}
}

func overlaps(a, b *MappingOverride) bool {
	return a.Pattern.Text == b.Pattern.Text &&
		a.Scope == b.Scope &&
		a.TargetField != b.TargetField
}

// blocking returns the conflicts that prevent admission outright.
func blocking(conflicts []Conflict) []Conflict {
	var out []Conflict

	for _, c := range conflicts {
		if c.Severity == SeverityCritical {
			out = append(out, c)
		}
	}

	return out
}
