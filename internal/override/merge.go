package override

import (
	"github.com/Elevated-Standards/mappings-sub003/internal/common"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
)

// Origin tells where a merged mapping came from.
type Origin int

const (
	OriginUnmapped Origin = iota
	OriginOverride
	OriginExact
	OriginFuzzy
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginUnmapped:
		return "unmapped"
	case OriginOverride:
		return "override"
	case OriginExact:
		return "exact"
	case OriginFuzzy:
		return "fuzzy"
	default:
		return common.UnknownStr
	}
}

// MergedMapping is the final decision for one source column.
type MergedMapping struct {
	SourceColumn string
	// TargetField is empty for unmapped columns.
	TargetField string
	Confidence  float64
	Origin      Origin
	// OverrideID is set when Origin is OriginOverride.
	OverrideID string
	SourceType match.SourceType
	Required   bool
	// Conflicts carries resolution conflicts, including blocked ones.
	Conflicts []Conflict
}

// Merge combines override resolution with the base mapper's candidates for
// every header of ctx (or, without headers, every candidate column). An
// applied override wins; otherwise the base candidate is used; otherwise the
// column is unmapped.
func (e *Engine) Merge(ctx Context, candidates []match.ColumnMatch) []MergedMapping {
	byColumn := make(map[string]match.ColumnMatch, len(candidates))
	for _, c := range candidates {
		if _, ok := byColumn[c.SourceColumn]; !ok {
			byColumn[c.SourceColumn] = c
		}
	}

	headers := ctx.Headers
	if common.IsEmpty(headers) {
		headers = make([]string, 0, len(candidates))
		for _, c := range candidates {
			headers = append(headers, c.SourceColumn)
		}
	}

	out := make([]MergedMapping, 0, len(headers))

	for _, h := range headers {
		res := e.ResolveOverride(h, ctx)
		base, hasBase := byColumn[h]

		m := MergedMapping{SourceColumn: h, Conflicts: res.Conflicts}

		switch {
		case res.OverrideApplied:
			m.TargetField = res.TargetField
			m.Confidence = res.Confidence
			m.Origin = OriginOverride
			m.OverrideID = res.AppliedOverride.ID

			if hasBase && base.TargetField == res.TargetField {
				m.SourceType = base.SourceType
				m.Required = base.Required
			}
		case hasBase:
			m.TargetField = base.TargetField
			m.Confidence = base.Confidence
			m.SourceType = base.SourceType
			m.Required = base.Required

			m.Origin = OriginFuzzy
			if base.ExactMatch {
				m.Origin = OriginExact
			}
		}

		out = append(out, m)
	}

	return out
}
