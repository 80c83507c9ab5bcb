package override

import (
	"fmt"
	"slices"
	"time"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
)

// OverrideType selects how a rule's pattern is compared to a column name.
type OverrideType int

const (
	MatchExact OverrideType = iota
	MatchContains
	MatchStartsWith
	MatchEndsWith
	MatchRegex
	MatchFuzzy
	MatchWordBoundary
)

// String returns the rule-file name of the override type.
func (t OverrideType) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	case MatchStartsWith:
		return "starts_with"
	case MatchEndsWith:
		return "ends_with"
	case MatchRegex:
		return "regex"
	case MatchFuzzy:
		return "fuzzy"
	case MatchWordBoundary:
		return "word_boundary"
	default:
		return common.UnknownStr
	}
}

// Pattern is the text a rule matches column names against.
type Pattern struct {
	Text          string
	CaseSensitive bool
	// SimilarityThreshold is required for MatchFuzzy and must lie in [0, 1].
	SimilarityThreshold *float64
}

// PositionConstraints restrict a rule to certain column positions (0-based).
type PositionConstraints struct {
	MinIndex        *int
	MaxIndex        *int
	SpecificIndices []int
}

// Condition is an extra predicate over the resolution context.
type Condition struct {
	// Field names the metadata key for ConditionMetadata; for other types it
	// is a label carried into diagnostics.
	Field    string
	Type     ConditionType
	Operator Operator
	Value    ConditionValue
	// Required conditions must hold for the rule to apply. Optional ones are
	// evaluated but do not affect the outcome.
	Required bool
}

// MappingOverride is a user-defined rule remapping a column pattern to a
// canonical target field.
type MappingOverride struct {
	ID                  string
	Name                string
	Description         string
	Pattern             Pattern
	Type                OverrideType
	Scope               Scope
	Conditions          []Condition
	TargetField         string
	Priority            int
	Active              bool
	PositionConstraints *PositionConstraints
	CreatedAt           time.Time
	ModifiedAt          time.Time
	CreatedBy           string
	Tags                []string
}

// String returns a short human-readable description of the rule.
func (o *MappingOverride) String() string {
	return fmt.Sprintf("%s(%s %q -> %s)", o.Name, o.Type, o.Pattern.Text, o.TargetField)
}

// Clone returns a deep copy of the rule.
func (o *MappingOverride) Clone() MappingOverride {
	c := *o
	c.Conditions = slices.Clone(o.Conditions)
	c.Tags = slices.Clone(o.Tags)

	if o.Pattern.SimilarityThreshold != nil {
		th := *o.Pattern.SimilarityThreshold
		c.Pattern.SimilarityThreshold = &th
	}

	if o.PositionConstraints != nil {
		pc := o.PositionConstraints.clone()
		c.PositionConstraints = &pc
	}

	return c
}

func (p *PositionConstraints) clone() PositionConstraints {
	c := PositionConstraints{SpecificIndices: slices.Clone(p.SpecificIndices)}

	if p.MinIndex != nil {
		v := *p.MinIndex
		c.MinIndex = &v
	}

	if p.MaxIndex != nil {
		v := *p.MaxIndex
		c.MaxIndex = &v
	}

	return c
}

// Threshold is a convenience for building a fuzzy Pattern.
func Threshold(v float64) *float64 {
	return &v
}

// Index is a convenience for building PositionConstraints.
func Index(v int) *int {
	return &v
}
