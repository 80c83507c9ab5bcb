package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflicts(t *testing.T) {
	base := testRule("a", "Asset ID", "asset_id", 1)

	tests := []struct {
		name      string
		candidate func() MappingOverride
		wantType  ConflictType
		wantSev   Severity
		wantNone  bool
	}{
		{
			name:      "same pattern and scope, other target",
			candidate: func() MappingOverride { return testRule("b", "Asset ID", "uuid", 1) },
			wantType:  PatternOverlap,
			wantSev:   SeverityMedium,
		},
		{
			name:      "same target is not a conflict",
			candidate: func() MappingOverride { return testRule("b", "Asset ID", "asset_id", 7) },
			wantNone:  true,
		},
		{
			name: "different scope",
			candidate: func() MappingOverride {
				o := testRule("b", "Asset ID", "uuid", 1)
				o.Scope = DocumentTypeScope{Name: "poam"}

				return o
			},
			wantNone: true,
		},
		{
			name:      "different pattern text",
			candidate: func() MappingOverride { return testRule("b", "asset id", "uuid", 1) },
			wantNone:  true,
		},
		{
			name:      "duplicate id",
			candidate: func() MappingOverride { return testRule("a", "Hostname", "hostname", 1) },
			wantType:  DuplicateID,
			wantSev:   SeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.candidate()
			got := DetectConflicts(&c, []MappingOverride{base})

			if tt.wantNone {
				assert.Empty(t, got)
				return
			}

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.wantSev, got[0].Severity)
			assert.True(t, got[0].Involves("a"))
			assert.True(t, got[0].Involves(c.ID))
		})
	}
}

func TestDetectConflicts_Symmetric(t *testing.T) {
	a := testRule("a", "Asset ID", "asset_id", 1)
	b := testRule("b", "Asset ID", "uuid", 3)
	c := testRule("c", "Asset ID", "uuid", 3)
	c.Scope = ProjectScope{ID: "moon"}

	rules := []MappingOverride{a, b, c}

	for i := range rules {
		for j := range rules {
			if i == j {
				continue
			}

			ab := DetectConflicts(&rules[i], rules[j:j+1])
			ba := DetectConflicts(&rules[j], rules[i:i+1])
			assert.Equal(t, len(ab), len(ba), "%s vs %s", rules[i].ID, rules[j].ID)
		}
	}
}

func TestBlocking(t *testing.T) {
	conflicts := []Conflict{
		{Type: PatternOverlap, Severity: SeverityMedium},
		{Type: DuplicateID, Severity: SeverityCritical},
	}

	got := blocking(conflicts)
	require.Len(t, got, 1)
	assert.Equal(t, DuplicateID, got[0].Type)
}
