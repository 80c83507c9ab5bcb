package mapping

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// Fields converts the catalog into base mapper field definitions.
func (rf *RuleFile) Fields() ([]match.FieldDef, error) {
	defs := make([]match.FieldDef, 0, len(rf.Fields))

	for i := range rf.Fields {
		f := &rf.Fields[i]

		st, ok := match.ParseSourceType(f.SourceType)
		if !ok {
			return nil, errors.Newf("field %q: unknown source_type %q", f.Target, f.SourceType)
		}

		defs = append(defs, match.FieldDef{
			Target:     f.Target,
			Columns:    append([]string(nil), f.Columns...),
			SourceType: st,
			Required:   f.Required,
		})
	}

	return defs, nil
}

// Overrides converts every override spec into a rule. Rules are not
// validated here; the engine validates them on admission. Missing ids get a
// random uuid and missing creation times the current time.
func (rf *RuleFile) Overrides() ([]override.MappingOverride, error) {
	now := time.Now().UTC()
	out := make([]override.MappingOverride, 0, len(rf.Overrides))

	for i := range rf.Overrides {
		o, err := rf.Overrides[i].toOverride(now)
		if err != nil {
			return nil, errors.Wrapf(err, "override %q", rf.Overrides[i].Label())
		}

		out = append(out, o)
	}

	return out, nil
}

func (o *OverrideSpec) toOverride(now time.Time) (override.MappingOverride, error) {
	typ, err := override.ParseOverrideType(o.Type)
	if err != nil {
		return override.MappingOverride{}, err
	}

	scope, err := override.NewScope(o.Scope.Kind, o.Scope.ID)
	if err != nil {
		return override.MappingOverride{}, err
	}

	conds := make([]override.Condition, 0, len(o.Conditions))

	for j := range o.Conditions {
		c, err := o.Conditions[j].toCondition()
		if err != nil {
			return override.MappingOverride{}, errors.Wrapf(err, "condition %d", j+1)
		}

		conds = append(conds, c)
	}

	r := override.MappingOverride{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Pattern: override.Pattern{
			Text:                o.Pattern,
			CaseSensitive:       o.CaseSensitive != nil && *o.CaseSensitive,
			SimilarityThreshold: o.Threshold,
		},
		Type:        typ,
		Scope:       scope,
		Conditions:  conds,
		TargetField: o.Target,
		Active:      o.Active == nil || *o.Active,
		CreatedAt:   now,
		ModifiedAt:  now,
		CreatedBy:   o.CreatedBy,
		Tags:        append([]string(nil), o.Tags...),
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if o.Priority != nil {
		r.Priority = *o.Priority
	}

	if o.CreatedAt != nil {
		r.CreatedAt = o.CreatedAt.UTC()
		r.ModifiedAt = r.CreatedAt
	}

	if o.Position != nil {
		r.PositionConstraints = &override.PositionConstraints{
			MinIndex:        o.Position.Min,
			MaxIndex:        o.Position.Max,
			SpecificIndices: o.Position.Indices,
		}
	}

	// Clone so the rule shares no memory with the spec.
	return r.Clone(), nil
}

func (c *ConditionSpec) toCondition() (override.Condition, error) {
	typ, err := override.ParseConditionType(c.Type)
	if err != nil {
		return override.Condition{}, err
	}

	op, err := override.ParseOperator(c.Operator)
	if err != nil {
		return override.Condition{}, err
	}

	cond := override.Condition{
		Field:    c.Field,
		Type:     typ,
		Operator: op,
		Required: c.Required,
	}

	switch {
	case !c.Value.Set:
	case c.Value.IsNumber && typ.IsNumeric():
		cond.Value = override.NumberValue(c.Value.Number)
	default:
		// Numbers compared against string subjects keep their text form.
		cond.Value = override.StringValue(c.Value.Text)
	}

	return cond, nil
}
