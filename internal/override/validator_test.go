package override

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(DefaultValidationRules(), nil)

	tests := []struct {
		name      string
		mutate    func(o *MappingOverride)
		wantField string
	}{
		{"valid", func(o *MappingOverride) {}, ""},
		{"empty name", func(o *MappingOverride) { o.Name = "" }, "name"},
		{"long name", func(o *MappingOverride) { o.Name = strings.Repeat("n", 101) }, "name"},
		{"name at limit", func(o *MappingOverride) { o.Name = strings.Repeat("n", 100) }, ""},
		{"empty target", func(o *MappingOverride) { o.TargetField = "" }, "target_field"},
		{"long target", func(o *MappingOverride) { o.TargetField = strings.Repeat("t", 201) }, "target_field"},
		{"empty created_by", func(o *MappingOverride) { o.CreatedBy = "" }, "created_by"},
		{"empty pattern", func(o *MappingOverride) { o.Pattern.Text = "" }, "pattern"},
		{"pattern at limit", func(o *MappingOverride) { o.Pattern.Text = strings.Repeat("p", 1000) }, ""},
		{"pattern over limit", func(o *MappingOverride) { o.Pattern.Text = strings.Repeat("p", 1001) }, "pattern"},
		{"multibyte pattern at limit", func(o *MappingOverride) { o.Pattern.Text = strings.Repeat("é", 1000) }, ""},
		{"forbidden pattern", func(o *MappingOverride) { o.Pattern.Text = ".*" }, "pattern"},
		{"invalid regex", func(o *MappingOverride) {
			o.Type = MatchRegex
			o.Pattern.Text = "(unclosed"
		}, "pattern"},
		{"valid regex", func(o *MappingOverride) {
			o.Type = MatchRegex
			o.Pattern.Text = `^asset\s*id$`
		}, ""},
		{"fuzzy without threshold", func(o *MappingOverride) { o.Type = MatchFuzzy }, "similarity_threshold"},
		{"fuzzy threshold above one", func(o *MappingOverride) {
			o.Type = MatchFuzzy
			o.Pattern.SimilarityThreshold = Threshold(1.01)
		}, "similarity_threshold"},
		{"fuzzy threshold negative", func(o *MappingOverride) {
			o.Type = MatchFuzzy
			o.Pattern.SimilarityThreshold = Threshold(-0.1)
		}, "similarity_threshold"},
		{"fuzzy threshold bounds", func(o *MappingOverride) {
			o.Type = MatchFuzzy
			o.Pattern.SimilarityThreshold = Threshold(0)
		}, ""},
		{"unknown type", func(o *MappingOverride) { o.Type = OverrideType(42) }, "override_type"},
		{"too many conditions", func(o *MappingOverride) {
			for range 11 {
				o.Conditions = append(o.Conditions, Condition{
					Field: "t", Type: ConditionDocumentType, Operator: OpEquals, Value: StringValue("x"),
				})
			}
		}, "conditions"},
		{"condition without field", func(o *MappingOverride) {
			o.Conditions = []Condition{{Type: ConditionDocumentType, Operator: OpEquals, Value: StringValue("x")}}
		}, "conditions[0]"},
		{"numeric condition with string operator", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionColumnCount, Operator: OpContains, Value: NumberValue(1)}}
		}, "conditions[0]"},
		{"numeric condition with string value", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionRowCount, Operator: OpEquals, Value: StringValue("1")}}
		}, "conditions[0]"},
		{"string condition with numeric operator", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionFileName, Operator: OpGreaterThan, Value: StringValue("a")}}
		}, "conditions[0]"},
		{"string condition with number value", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionHeaderContent, Operator: OpEquals, Value: NumberValue(3)}}
		}, "conditions[0]"},
		{"condition without value", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionUser, Operator: OpEquals}}
		}, "conditions[0]"},
		{"numeric equality is allowed", func(o *MappingOverride) {
			o.Conditions = []Condition{{Field: "c", Type: ConditionFileSize, Operator: OpNotEquals, Value: NumberValue(0)}}
		}, ""},
		{"nil scope", func(o *MappingOverride) { o.Scope = nil }, "scope"},
		{"empty scope id", func(o *MappingOverride) { o.Scope = UserScope{} }, "scope"},
		{"empty document type scope", func(o *MappingOverride) { o.Scope = DocumentTypeScope{} }, "scope"},
		{"min above max", func(o *MappingOverride) {
			o.PositionConstraints = &PositionConstraints{MinIndex: Index(3), MaxIndex: Index(1)}
		}, "position_constraints"},
		{"min equals max", func(o *MappingOverride) {
			o.PositionConstraints = &PositionConstraints{MinIndex: Index(2), MaxIndex: Index(2)}
		}, ""},
		{"empty specific indices", func(o *MappingOverride) {
			o.PositionConstraints = &PositionConstraints{SpecificIndices: []int{}}
		}, "position_constraints"},
		{"duplicate specific indices", func(o *MappingOverride) {
			o.PositionConstraints = &PositionConstraints{SpecificIndices: []int{1, 2, 1}}
		}, "position_constraints"},
		{"negative index", func(o *MappingOverride) {
			o.PositionConstraints = &PositionConstraints{MinIndex: Index(-1)}
		}, "position_constraints"},
		{"priority at max", func(o *MappingOverride) { o.Priority = 1000 }, ""},
		{"priority above max", func(o *MappingOverride) { o.Priority = 1001 }, "priority"},
		{"priority below min", func(o *MappingOverride) { o.Priority = -1001 }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testRule("id", "Asset ID", "asset_id", 0)
			tt.mutate(&o)

			err := v.Validate(&o)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			assert.NotEmpty(t, ve.Reason)
		})
	}
}

func TestValidator_FirstFailureWins(t *testing.T) {
	v := NewValidator(DefaultValidationRules(), nil)

	o := testRule("id", "", "", 5000)
	o.Name = ""

	var ve *ValidationError
	require.True(t, errors.As(v.Validate(&o), &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestValidator_CustomRules(t *testing.T) {
	rules := ValidationRules{
		MaxPatternLength:  8,
		ForbiddenPatterns: []string{"id"},
		MaxConditions:     0,
		MinPriority:       0,
		MaxPriority:       10,
	}
	v := NewValidator(rules, nil)
	assert.Equal(t, rules, v.Rules())

	o := testRule("x", "Asset ID", "asset_id", 5)
	require.NoError(t, v.Validate(&o))

	o.Pattern.Text = "id"
	assert.Error(t, v.Validate(&o))

	o.Pattern.Text = "Asset ID!"
	assert.Error(t, v.Validate(&o))
}

func TestValidator_RegexIsCachedInMatcher(t *testing.T) {
	m := NewMatcher(8)
	v := NewValidator(DefaultValidationRules(), m)

	o := testRule("r", `serial\s+number`, "serial_number", 0)
	o.Type = MatchRegex
	require.NoError(t, v.Validate(&o))

	_, ok := m.regexes.Get(`(?i)serial\s+number`)
	assert.True(t, ok)
}

func TestValidator_ValidateSet(t *testing.T) {
	v := NewValidator(DefaultValidationRules(), nil)

	bad := testRule("bad", "", "asset_id", 0)
	rules := []MappingOverride{
		testRule("a", "Asset ID", "asset_id", 0),
		testRule("b", "Asset ID", "uuid", 0),
		bad,
		testRule("a", "Hostname", "hostname", 0),
	}

	diags := v.ValidateSet(rules)

	require.Len(t, diags.Errors, 2)
	assert.Equal(t, CodeInvalidRule, diags.Errors[0].Code)
	assert.Equal(t, "bad", diags.Errors[0].Rule)
	assert.Equal(t, CodeDuplicateID, diags.Errors[1].Code)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, CodeOverlap, diags.Warnings[0].Code)
	assert.Equal(t, "b", diags.Warnings[0].Rule)
	assert.NotEmpty(t, diags.Warnings[0].Suggestions)

	assert.False(t, diags.IsValid())
}
