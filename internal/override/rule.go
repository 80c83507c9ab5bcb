package override

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// RuleOption customizes a rule built by NewMappingOverride.
type RuleOption func(*MappingOverride)

// WithID replaces the generated id, for rules loaded from files.
func WithID(id string) RuleOption {
	return func(o *MappingOverride) { o.ID = id }
}

// WithDescription sets the rule description.
func WithDescription(d string) RuleOption {
	return func(o *MappingOverride) { o.Description = d }
}

// WithScope sets the rule scope. The default is GlobalScope.
func WithScope(s Scope) RuleOption {
	return func(o *MappingOverride) { o.Scope = s }
}

// WithConditions attaches conditions to the rule.
func WithConditions(conds ...Condition) RuleOption {
	return func(o *MappingOverride) { o.Conditions = slices.Clone(conds) }
}

// WithPriority sets the rule priority.
func WithPriority(p int) RuleOption {
	return func(o *MappingOverride) { o.Priority = p }
}

// WithPosition restricts the rule to certain column positions.
func WithPosition(pc PositionConstraints) RuleOption {
	return func(o *MappingOverride) {
		c := pc.clone()
		o.PositionConstraints = &c
	}
}

// WithTags labels the rule.
func WithTags(tags ...string) RuleOption {
	return func(o *MappingOverride) { o.Tags = slices.Clone(tags) }
}

// WithCreatedAt sets both creation and modification time.
func WithCreatedAt(t time.Time) RuleOption {
	return func(o *MappingOverride) {
		o.CreatedAt = t
		o.ModifiedAt = t
	}
}

// WithActive sets whether the rule takes part in resolution. Rules are
// active by default.
func WithActive(active bool) RuleOption {
	return func(o *MappingOverride) { o.Active = active }
}

var defaultValidator = NewValidator(DefaultValidationRules(), NewMatcher(0))

// NewMappingOverride builds an active, globally scoped rule with a fresh id
// and the current time, applies opts and checks the result against the
// default validation rules.
func NewMappingOverride(
	name string,
	t OverrideType,
	pattern Pattern,
	target, createdBy string,
	opts ...RuleOption,
) (MappingOverride, error) {
	now := time.Now().UTC()

	o := MappingOverride{
		ID:          uuid.NewString(),
		Name:        name,
		Pattern:     pattern,
		Type:        t,
		Scope:       GlobalScope{},
		TargetField: target,
		Active:      true,
		CreatedAt:   now,
		ModifiedAt:  now,
		CreatedBy:   createdBy,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if err := defaultValidator.Validate(&o); err != nil {
		return MappingOverride{}, err
	}

	return o, nil
}
