package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeMatches(t *testing.T) {
	full := NewContext("inventory").
		WithFileName("fy25-inventory.xlsx").
		WithUser("alice").
		WithOrganization("acme").
		WithProject("moon")
	bare := NewContext("inventory")

	tests := []struct {
		name  string
		scope Scope
		ctx   Context
		want  bool
	}{
		{"global", GlobalScope{}, bare, true},
		{"document type", DocumentTypeScope{Name: "inventory"}, bare, true},
		{"document type miss", DocumentTypeScope{Name: "poam"}, bare, false},
		{"file pattern", FilePatternScope{Substr: "fy25"}, full, true},
		{"file pattern is not a glob", FilePatternScope{Substr: "*.xlsx"}, full, false},
		{"file pattern without file", FilePatternScope{Substr: "fy25"}, bare, false},
		{"user", UserScope{ID: "alice"}, full, true},
		{"user miss", UserScope{ID: "bob"}, full, false},
		{"user absent", UserScope{ID: "alice"}, bare, false},
		{"organization", OrganizationScope{ID: "acme"}, full, true},
		{"organization absent", OrganizationScope{ID: "acme"}, bare, false},
		{"project", ProjectScope{ID: "moon"}, full, true},
		{"project absent", ProjectScope{ID: "moon"}, bare, false},
		{"nil scope", nil, full, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeMatches(tt.scope, &tt.ctx))
		})
	}
}

func TestEvaluateCondition(t *testing.T) {
	ctx := NewContext("inventory").
		WithFileName("inventory-2025.xlsx").
		WithUser("alice").
		WithHeaders("Asset ID", "Hostname", "Serial Number").
		WithRowCount(120).
		WithFileSize(2048).
		WithSampleData([][]string{{"A-1", "web01", "SN-9"}, {"A-2", "db01", "SN-10"}}).
		WithMetadata("agency", "GSA")

	cond := func(typ ConditionType, op Operator, v ConditionValue) Condition {
		return Condition{Field: "agency", Type: typ, Operator: op, Value: v, Required: true}
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"doc type equals", cond(ConditionDocumentType, OpEquals, StringValue("inventory")), true},
		{"doc type not equals", cond(ConditionDocumentType, OpNotEquals, StringValue("inventory")), false},
		{"doc type is case-sensitive", cond(ConditionDocumentType, OpEquals, StringValue("Inventory")), false},
		{"file name starts with", cond(ConditionFileName, OpStartsWith, StringValue("inventory")), true},
		{"file name ends with", cond(ConditionFileName, OpEndsWith, StringValue(".csv")), false},
		{"user", cond(ConditionUser, OpEquals, StringValue("alice")), true},
		{"metadata", cond(ConditionMetadata, OpEquals, StringValue("GSA")), true},
		{"metadata contains", cond(ConditionMetadata, OpContains, StringValue("S")), true},
		{"header contains", cond(ConditionHeaderContent, OpContains, StringValue("Serial")), true},
		{"header equals", cond(ConditionHeaderContent, OpEquals, StringValue("Hostname")), true},
		{"header not contains", cond(ConditionHeaderContent, OpNotContains, StringValue("MAC")), true},
		{"header not contains present", cond(ConditionHeaderContent, OpNotContains, StringValue("Host")), false},
		{"header not equals present", cond(ConditionHeaderContent, OpNotEquals, StringValue("Hostname")), false},
		{"cell starts with", cond(ConditionCellContent, OpStartsWith, StringValue("SN-")), true},
		{"cell equals miss", cond(ConditionCellContent, OpEquals, StringValue("web02")), false},
		{"column count from headers", cond(ConditionColumnCount, OpEquals, NumberValue(3)), true},
		{"column count greater", cond(ConditionColumnCount, OpGreaterThan, NumberValue(3)), false},
		{"row count", cond(ConditionRowCount, OpGreaterOrEqual, NumberValue(120)), true},
		{"row count less", cond(ConditionRowCount, OpLessThan, NumberValue(100)), false},
		{"file size", cond(ConditionFileSize, OpLessOrEqual, NumberValue(4096)), true},
		{"file size not equals", cond(ConditionFileSize, OpNotEquals, NumberValue(2048)), false},
		{"string type with number", cond(ConditionDocumentType, OpEquals, NumberValue(1)), false},
		{"numeric type with string", cond(ConditionRowCount, OpEquals, StringValue("120")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(&tt.cond, &ctx))
		})
	}
}

func TestEvaluateCondition_MissingSubject(t *testing.T) {
	ctx := NewContext("inventory")

	tests := []Condition{
		{Field: "f", Type: ConditionFileName, Operator: OpNotEquals, Value: StringValue("x")},
		{Field: "f", Type: ConditionUser, Operator: OpNotEquals, Value: StringValue("x")},
		{Field: "missing", Type: ConditionMetadata, Operator: OpNotEquals, Value: StringValue("x")},
		{Field: "f", Type: ConditionRowCount, Operator: OpGreaterOrEqual, Value: NumberValue(0)},
		{Field: "f", Type: ConditionFileSize, Operator: OpGreaterOrEqual, Value: NumberValue(0)},
	}

	for _, c := range tests {
		t.Run(c.Type.String(), func(t *testing.T) {
			assert.False(t, EvaluateCondition(&c, &ctx))
		})
	}
}

func TestEvaluateCondition_ExplicitColumnCount(t *testing.T) {
	ctx := NewContext("inventory").WithHeaders("a").WithColumnCount(12)
	c := Condition{Field: "cols", Type: ConditionColumnCount, Operator: OpEquals, Value: NumberValue(12)}

	assert.True(t, EvaluateCondition(&c, &ctx))
}

func TestConditionsHold(t *testing.T) {
	ctx := NewContext("inventory")

	pass := Condition{Field: "t", Type: ConditionDocumentType, Operator: OpEquals, Value: StringValue("inventory")}
	fail := Condition{Field: "t", Type: ConditionDocumentType, Operator: OpEquals, Value: StringValue("poam")}

	requiredPass, requiredFail := pass, fail
	requiredPass.Required = true
	requiredFail.Required = true

	tests := []struct {
		name  string
		conds []Condition
		want  bool
	}{
		{"none", nil, true},
		{"required pass", []Condition{requiredPass}, true},
		{"required fail", []Condition{requiredFail}, false},
		{"optional failure is inert", []Condition{fail}, true},
		{"optional failure with required pass", []Condition{fail, requiredPass}, true},
		{"one required fails", []Condition{requiredPass, requiredFail}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConditionsHold(tt.conds, &ctx))
		})
	}
}

func TestPositionAllows(t *testing.T) {
	headers := []string{"Asset ID", "Hostname", "Serial Number", "Hostname"}

	tests := []struct {
		name   string
		pc     *PositionConstraints
		column string
		want   bool
	}{
		{"no constraints", nil, "Unknown", true},
		{"column absent", &PositionConstraints{MinIndex: Index(0)}, "Unknown", false},
		{"min", &PositionConstraints{MinIndex: Index(1)}, "Hostname", true},
		{"min miss", &PositionConstraints{MinIndex: Index(1)}, "Asset ID", false},
		{"max", &PositionConstraints{MaxIndex: Index(1)}, "Hostname", true},
		{"max miss", &PositionConstraints{MaxIndex: Index(1)}, "Serial Number", false},
		{"specific", &PositionConstraints{SpecificIndices: []int{0, 2}}, "Serial Number", true},
		{"specific miss", &PositionConstraints{SpecificIndices: []int{0, 2}}, "Hostname", false},
		{"first index decides", &PositionConstraints{SpecificIndices: []int{3}}, "Hostname", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionAllows(tt.pc, tt.column, headers))
		})
	}
}
