package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMapper_MapColumn(t *testing.T) {
	m := NewColumnMapper(testCatalog(), 0)
	assert.InDelta(t, DefaultMinScore, m.MinConfidence(), 0.0001)

	tests := []struct {
		name       string
		header     string
		wantOK     bool
		wantTarget string
		wantExact  bool
		minConf    float64
	}{
		{"exact", "Asset ID", true, "asset_id", true, 1.0},
		{"exact case and spacing", "  asset   id ", true, "asset_id", true, 1.0},
		{"alias", "DNS Name", true, "hostname", true, 1.0},
		{"separator variant is fuzzy", "Asset_ID", true, "asset_id", false, 0.99},
		{"typo", "Host Nme", true, "hostname", false, 0.85},
		{"unrelated", "Colour", false, "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, ok := m.MapColumn(tt.header)
			require.Equal(t, tt.wantOK, ok)

			if !ok {
				return
			}

			assert.Equal(t, tt.header, cm.SourceColumn)
			assert.Equal(t, tt.wantTarget, cm.TargetField)
			assert.Equal(t, tt.wantExact, cm.ExactMatch)
			assert.GreaterOrEqual(t, cm.Confidence, tt.minConf)
			assert.Equal(t, SourceInventory, cm.SourceType)
		})
	}
}

func TestColumnMapper_RequiredFlag(t *testing.T) {
	m := NewColumnMapper(testCatalog(), 0)

	cm, ok := m.MapColumn("Unique Asset Identifier")
	require.True(t, ok)
	assert.True(t, cm.Required)

	cm, ok = m.MapColumn("Hostname")
	require.True(t, ok)
	assert.False(t, cm.Required)
}

func TestColumnMapper_FirstFieldWinsDuplicateAlias(t *testing.T) {
	fields := []FieldDef{
		{Target: "first", Columns: []string{"Name"}},
		{Target: "second", Columns: []string{"name"}},
	}

	cm, ok := NewColumnMapper(fields, 0).MapColumn("NAME")
	require.True(t, ok)
	assert.Equal(t, "first", cm.TargetField)
}

func TestColumnMapper_StrictThreshold(t *testing.T) {
	m := NewColumnMapper(testCatalog(), 0.95)

	_, ok := m.MapColumn("Host Nme")
	assert.False(t, ok)
}

func TestColumnMapper_MapColumns(t *testing.T) {
	m := NewColumnMapper(testCatalog(), 0)

	got := m.MapColumns([]string{"Asset ID", "Colour", "Serial Number"})

	require.Len(t, got, 2)
	assert.Equal(t, "asset_id", got[0].TargetField)
	assert.Equal(t, "serial_number", got[1].TargetField)
}

func TestColumnMapper_Suggestions(t *testing.T) {
	m := NewColumnMapper(testCatalog(), 0)

	got := m.Suggestions("Serial No", 2)

	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
	assert.Equal(t, "serial_number", got[0].Field.Target)
}
