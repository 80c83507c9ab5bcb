package override

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
)

// Length limits for rule text fields, in runes.
const (
	MaxNameLength   = 100
	MaxTargetLength = 200
)

// ValidationRules configures the Validator.
type ValidationRules struct {
	MaxPatternLength  int
	ForbiddenPatterns []string
	MaxConditions     int
	MinPriority       int
	MaxPriority       int
}

// DefaultValidationRules returns the stock limits.
func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		MaxPatternLength:  1000,
		ForbiddenPatterns: []string{".*"},
		MaxConditions:     10,
		MinPriority:       -1000,
		MaxPriority:       1000,
	}
}

// Validator rejects malformed rules before they are admitted.
type Validator struct {
	rules   ValidationRules
	matcher *Matcher
}

// NewValidator returns a validator. Regex patterns that pass are left
// compiled in matcher; a nil matcher gets a private one.
func NewValidator(rules ValidationRules, matcher *Matcher) *Validator {
	if matcher == nil {
		matcher = NewMatcher(0)
	}

	return &Validator{rules: rules, matcher: matcher}
}

// Rules returns the limits in force.
func (v *Validator) Rules() ValidationRules {
	return v.rules
}

// Validate checks a rule and returns the first violation as a
// *ValidationError, or nil.
func (v *Validator) Validate(o *MappingOverride) error {
	if err := v.validateText(o); err != nil {
		return err
	}

	if err := v.validatePattern(o); err != nil {
		return err
	}

	if err := v.validateConditions(o.Conditions); err != nil {
		return err
	}

	if err := validateScope(o.Scope); err != nil {
		return err
	}

	if err := validatePosition(o.PositionConstraints); err != nil {
		return err
	}

	if o.Priority < v.rules.MinPriority || o.Priority > v.rules.MaxPriority {
		return newValidationError("priority", "%d outside [%d, %d]",
			o.Priority, v.rules.MinPriority, v.rules.MaxPriority)
	}

	return nil
}

func (v *Validator) validateText(o *MappingOverride) error {
	switch n := utf8.RuneCountInString(o.Name); {
	case n == 0:
		return newValidationError("name", "must not be empty")
	case n > MaxNameLength:
		return newValidationError("name", "%d characters exceeds %d", n, MaxNameLength)
	}

	switch n := utf8.RuneCountInString(o.TargetField); {
	case n == 0:
		return newValidationError("target_field", "must not be empty")
	case n > MaxTargetLength:
		return newValidationError("target_field", "%d characters exceeds %d", n, MaxTargetLength)
	}

	if o.CreatedBy == "" {
		return newValidationError("created_by", "must not be empty")
	}

	return nil
}

func (v *Validator) validatePattern(o *MappingOverride) error {
	switch n := utf8.RuneCountInString(o.Pattern.Text); {
	case n == 0:
		return newValidationError("pattern", "must not be empty")
	case n > v.rules.MaxPatternLength:
		return newValidationError("pattern", "%d characters exceeds %d", n, v.rules.MaxPatternLength)
	}

	if slices.Contains(v.rules.ForbiddenPatterns, o.Pattern.Text) {
		return newValidationError("pattern", "%q is forbidden", o.Pattern.Text)
	}

	switch o.Type {
	case MatchRegex:
		if _, err := v.matcher.Compile(o.Pattern); err != nil {
			return newValidationError("pattern", "invalid regex: %v", err)
		}
	case MatchFuzzy:
		th := o.Pattern.SimilarityThreshold
		if th == nil {
			return newValidationError("similarity_threshold", "required for fuzzy matching")
		}

		if *th < 0 || *th > 1 {
			return newValidationError("similarity_threshold", "%g outside [0, 1]", *th)
		}
	case MatchExact, MatchContains, MatchStartsWith, MatchEndsWith, MatchWordBoundary:
	default:
		return newValidationError("override_type", "unknown value %d", int(o.Type))
	}

	return nil
}

func (v *Validator) validateConditions(conds []Condition) error {
	if len(conds) > v.rules.MaxConditions {
		return newValidationError("conditions", "%d conditions exceeds %d", len(conds), v.rules.MaxConditions)
	}

	for i := range conds {
		if err := validateCondition(&conds[i]); err != nil {
			return newValidationError(fmt.Sprintf("conditions[%d]", i), "%s", err)
		}
	}

	return nil
}

func validateCondition(c *Condition) error {
	if c.Field == "" {
		return errors.New("field must not be empty")
	}

	if c.Type < ConditionDocumentType || c.Type > ConditionFileSize {
		return errors.Newf("unknown condition type %d", int(c.Type))
	}

	if c.Operator < OpEquals || c.Operator > OpLessOrEqual {
		return errors.Newf("unknown operator %d", int(c.Operator))
	}

	if c.Value == nil {
		return errors.New("value is required")
	}

	if c.Type.IsNumeric() {
		if c.Operator.IsStringOnly() {
			return errors.Newf("numeric condition %s cannot use string operator %s", c.Type, c.Operator)
		}

		if _, ok := c.Value.(NumberValue); !ok {
			return errors.Newf("numeric condition %s requires a numeric value", c.Type)
		}

		return nil
	}

	if c.Operator.IsNumericOnly() {
		return errors.Newf("string condition %s cannot use numeric operator %s", c.Type, c.Operator)
	}

	if _, ok := c.Value.(StringValue); !ok {
		return errors.Newf("string condition %s requires a string value", c.Type)
	}

	return nil
}

func validateScope(s Scope) error {
	switch s.(type) {
	case nil:
		return newValidationError("scope", "is required")
	case GlobalScope:
		return nil
	case DocumentTypeScope, FilePatternScope, UserScope, OrganizationScope, ProjectScope:
		if s.Identifier() == "" {
			return newValidationError("scope", "%s identifier must not be empty", s.Kind())
		}

		return nil
	default:
		return newValidationError("scope", "unsupported scope %T", s)
	}
}

func validatePosition(pc *PositionConstraints) error {
	if pc == nil {
		return nil
	}

	if pc.MinIndex != nil && *pc.MinIndex < 0 {
		return newValidationError("position_constraints", "min_index %d is negative", *pc.MinIndex)
	}

	if pc.MaxIndex != nil && *pc.MaxIndex < 0 {
		return newValidationError("position_constraints", "max_index %d is negative", *pc.MaxIndex)
	}

	if pc.MinIndex != nil && pc.MaxIndex != nil && *pc.MinIndex > *pc.MaxIndex {
		return newValidationError("position_constraints", "min_index %d greater than max_index %d",
			*pc.MinIndex, *pc.MaxIndex)
	}

	if pc.SpecificIndices != nil {
		if len(pc.SpecificIndices) == 0 {
			return newValidationError("position_constraints", "specific_indices must not be empty")
		}

		if common.HasDuplicates(pc.SpecificIndices) {
			return newValidationError("position_constraints", "specific_indices contains duplicates")
		}

		if slices.ContainsFunc(pc.SpecificIndices, func(i int) bool { return i < 0 }) {
			return newValidationError("position_constraints", "specific_indices contains a negative index")
		}
	}

	return nil
}

// Diagnostic codes emitted by ValidateSet.
const (
	CodeInvalidRule = "invalid_rule"
	CodeDuplicateID = "duplicate_id"
	CodeOverlap     = "pattern_overlap"
	CodeAdvice      = "conflict_advice"
)

// ValidateSet validates every rule and reports all failures, duplicate ids
// and admission conflicts, instead of stopping at the first one.
func (v *Validator) ValidateSet(rules []MappingOverride) *diagnostic.Diagnostics {
	diags, _ := v.validateSet(rules)
	return diags
}

// validateSet is ValidateSet that also returns every conflict it found.
func (v *Validator) validateSet(rules []MappingOverride) (*diagnostic.Diagnostics, []Conflict) {
	diags := &diagnostic.Diagnostics{}
	admitted := make([]MappingOverride, 0, len(rules))

	var conflicts []Conflict

	for i := range rules {
		r := &rules[i]
		label := ruleLabel(r, i)

		if err := v.Validate(r); err != nil {
			diags.AddError(CodeInvalidRule, err.Error(), label, r.Pattern.Text)
			continue
		}

		for _, c := range DetectConflicts(r, admitted) {
			conflicts = append(conflicts, c)

			switch c.Type {
			case DuplicateID:
				diags.AddError(CodeDuplicateID, c.Description, label, r.Pattern.Text)
			case PatternOverlap, PriorityTie:
				diags.AddWarning(CodeOverlap, c.Description, label, r.Pattern.Text, c.SuggestedResolution)
			}
		}

		admitted = append(admitted, *r)
	}

	return diags, conflicts
}

func ruleLabel(r *MappingOverride, i int) string {
	switch {
	case r.ID != "":
		return r.ID
	case r.Name != "":
		return r.Name
	default:
		return fmt.Sprintf("#%d", i)
	}
}
