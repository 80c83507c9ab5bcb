package override

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMappingOverride_Defaults(t *testing.T) {
	o, err := NewMappingOverride("serial", MatchExact, Pattern{Text: "Serial #"}, "serial_number", "alice")
	require.NoError(t, err)

	_, err = uuid.Parse(o.ID)
	assert.NoError(t, err)
	assert.True(t, o.Active)
	assert.Equal(t, GlobalScope{}, o.Scope)
	assert.False(t, o.CreatedAt.IsZero())
	assert.Equal(t, o.CreatedAt, o.ModifiedAt)
	assert.Equal(t, "alice", o.CreatedBy)
}

func TestNewMappingOverride_Options(t *testing.T) {
	pc := PositionConstraints{SpecificIndices: []int{0}}

	o, err := NewMappingOverride("poam id", MatchRegex, Pattern{Text: `^poam\s*id$`}, "poam_id", "alice",
		WithID("rule-1"),
		WithDescription("POA&M identifier"),
		WithScope(DocumentTypeScope{Name: "poam"}),
		WithConditions(Condition{
			Field: "agency", Type: ConditionMetadata, Operator: OpEquals, Value: StringValue("GSA"), Required: true,
		}),
		WithPriority(50),
		WithPosition(pc),
		WithTags("fedramp"),
		WithCreatedAt(testTime),
		WithActive(false),
	)
	require.NoError(t, err)

	assert.Equal(t, "rule-1", o.ID)
	assert.Equal(t, "POA&M identifier", o.Description)
	assert.Equal(t, DocumentTypeScope{Name: "poam"}, o.Scope)
	assert.Len(t, o.Conditions, 1)
	assert.Equal(t, 50, o.Priority)
	assert.Equal(t, []string{"fedramp"}, o.Tags)
	assert.Equal(t, testTime, o.CreatedAt)
	assert.False(t, o.Active)

	// The position constraints were copied.
	pc.SpecificIndices[0] = 9
	assert.Equal(t, []int{0}, o.PositionConstraints.SpecificIndices)
}

func TestNewMappingOverride_Invalid(t *testing.T) {
	_, err := NewMappingOverride("", MatchExact, Pattern{Text: "x"}, "y", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMappingOverride_Clone(t *testing.T) {
	o := testRule("a", "Asset ID", "uuid", 1)
	o.Pattern.SimilarityThreshold = Threshold(0.5)
	o.PositionConstraints = &PositionConstraints{MinIndex: Index(1), SpecificIndices: []int{1, 2}}
	o.Tags = []string{"t"}
	o.Conditions = []Condition{{Field: "f"}}

	c := o.Clone()
	assert.Equal(t, o, c)

	*c.Pattern.SimilarityThreshold = 0.9
	*c.PositionConstraints.MinIndex = 5
	c.PositionConstraints.SpecificIndices[0] = 7
	c.Tags[0] = "u"
	c.Conditions[0].Field = "g"

	assert.InDelta(t, 0.5, *o.Pattern.SimilarityThreshold, 0.0001)
	assert.Equal(t, 1, *o.PositionConstraints.MinIndex)
	assert.Equal(t, []int{1, 2}, o.PositionConstraints.SpecificIndices)
	assert.Equal(t, []string{"t"}, o.Tags)
	assert.Equal(t, "f", o.Conditions[0].Field)

	assert.Contains(t, o.String(), "uuid")
}
