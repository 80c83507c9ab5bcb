package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/mapping"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

const testRules = `
fields:
  - {target: asset_id, columns: [Asset ID, Unique Asset Identifier], source_type: inventory, required: true}
  - {target: hostname, columns: [Hostname, DNS Name], source_type: inventory}
  - {target: ip_address, columns: [IP Address], source_type: inventory}
  - {target: serial_number, columns: [Serial Number], source_type: inventory}
  - {target: weakness_name, columns: [Weakness Name], source_type: poam, required: true}
overrides:
  - {id: mgmt-ip, pattern: Mgmt IP, target: ip_address, priority: 10}
  - {id: status-a, pattern: Status, target: status_a, priority: 5}
  - {id: status-b, pattern: Status, target: status_b, priority: 5}
`

func newTestPlanner(t *testing.T, cfg Config) *Planner {
	t.Helper()

	rf, err := mapping.Parse([]byte(testRules))
	require.NoError(t, err)

	fields, err := rf.Fields()
	require.NoError(t, err)

	rules, err := rf.Overrides()
	require.NoError(t, err)

	e := override.NewEngine(override.WithLogger(zaptest.NewLogger(t)))
	for _, r := range rules {
		require.NoError(t, e.AddOverride(r))
	}

	return NewPlanner(match.NewColumnMapper(fields, 0), override.NewSyncEngine(e), cfg, zaptest.NewLogger(t))
}

func inventoryDoc(headers ...string) Document {
	return Document{
		Name:    "inventory.xlsx",
		Context: override.NewContext("inventory").WithHeaders(headers...),
	}
}

func codesOf(ds []diagnostic.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code)
	}

	return out
}

func TestPlan_Inventory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowConfidence = 0.95

	p := newTestPlanner(t, cfg)
	dp := p.Plan(inventoryDoc("Asset ID", "Host Name", "Mgmt IP", "Serial Numbr", "Status", "Zzz"))

	assert.Equal(t, "inventory.xlsx", dp.Document)
	assert.Equal(t, "inventory", dp.DocumentType)
	require.Len(t, dp.Columns, 6)

	tests := []struct {
		column     string
		target     string
		origin     override.Origin
		confidence float64
	}{
		{"Asset ID", "asset_id", override.OriginExact, 1.0},
		{"Host Name", "hostname", override.OriginFuzzy, 1.0},
		{"Mgmt IP", "ip_address", override.OriginOverride, override.SingleMatchConfidence},
		{"Serial Numbr", "serial_number", override.OriginFuzzy, 11.0 / 12.0},
		{"Zzz", "", override.OriginUnmapped, 0},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			col, ok := dp.Column(tt.column)
			require.True(t, ok)

			assert.Equal(t, tt.target, col.TargetField)
			assert.Equal(t, tt.origin, col.Origin)
			assert.InDelta(t, tt.confidence, col.Confidence, 0.001)
			assert.NotEmpty(t, col.Explanation)
		})
	}

	asset, _ := dp.Column("Asset ID")
	assert.True(t, asset.Required)
	assert.Equal(t, match.SourceInventory, asset.SourceType)

	mgmt, _ := dp.Column("Mgmt IP")
	assert.Equal(t, "mgmt-ip", mgmt.OverrideID)
	// The override target agrees with nothing the base mapper found.
	assert.False(t, mgmt.Required)

	status, _ := dp.Column("Status")
	assert.Equal(t, override.OriginOverride, status.Origin)
	assert.Contains(t, []string{"status_a", "status_b"}, status.TargetField)
	assert.InDelta(t, override.ResolvedConflictConfidence, status.Confidence, 0.001)
	require.Len(t, status.Conflicts, 1)

	serial, _ := dp.Column("Serial Numbr")
	require.NotEmpty(t, serial.Candidates)
	assert.Equal(t, "serial_number", serial.Candidates[0].Field.Target)

	zzz, _ := dp.Column("Zzz")
	assert.Empty(t, zzz.Candidates)
	assert.Equal(t, "no similar catalog field", zzz.Explanation)

	assert.Equal(t, []string{"Zzz"}, dp.Unmapped())
	assert.Len(t, dp.Mapped(), 5)
	assert.Empty(t, dp.MissingRequired)

	assert.Empty(t, dp.Diagnostics.Errors)
	assert.ElementsMatch(t, []string{"override_conflict", "unmapped_column"}, codesOf(dp.Diagnostics.Warnings))
	assert.Equal(t, []string{"low_confidence"}, codesOf(dp.Diagnostics.Infos))

	for _, w := range dp.Diagnostics.Warnings {
		if w.Code == "override_conflict" {
			assert.Contains(t, w.Rule, "status-a")
			assert.Contains(t, w.Rule, "status-b")
			assert.Equal(t, "Status", w.Column)
		}
	}
}

func TestPlan_BelowThreshold(t *testing.T) {
	p := newTestPlanner(t, DefaultConfig())
	dp := p.Plan(inventoryDoc("Serial"))

	col, ok := dp.Column("Serial")
	require.True(t, ok)
	assert.Equal(t, override.OriginUnmapped, col.Origin)
	assert.Contains(t, col.Explanation, `best match "serial_number" (0.50) below threshold 0.70`)

	require.Len(t, dp.Diagnostics.Warnings, 1)
	assert.Equal(t, []string{"serial_number"}, dp.Diagnostics.Warnings[0].Suggestions)
}

func TestPlan_MissingRequired(t *testing.T) {
	p := newTestPlanner(t, DefaultConfig())

	tests := []struct {
		name    string
		docType string
		headers []string
		want    []string
	}{
		{"poam needs weakness", "poam", []string{"Hostname"}, []string{"weakness_name"}},
		{"poam satisfied", "poam", []string{"Weakness Name"}, nil},
		{"inventory needs asset", "inventory", []string{"Hostname"}, []string{"asset_id"}},
		{"untyped needs both", "", []string{"Hostname"}, []string{"asset_id", "weakness_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dp := p.Plan(Document{Name: tt.name, Context: override.NewContext(tt.docType).WithHeaders(tt.headers...)})

			assert.Equal(t, tt.want, dp.MissingRequired)
			assert.Len(t, dp.Diagnostics.Errors, len(tt.want))
		})
	}
}

func TestPlan_DuplicateTarget(t *testing.T) {
	p := newTestPlanner(t, DefaultConfig())
	dp := p.Plan(inventoryDoc("Asset ID", "Hostname", "DNS Name"))

	require.Len(t, dp.Diagnostics.Warnings, 1)
	w := dp.Diagnostics.Warnings[0]
	assert.Equal(t, "duplicate_target", w.Code)
	assert.Equal(t, "DNS Name", w.Column)
}

func TestPlanDocuments(t *testing.T) {
	p := newTestPlanner(t, DefaultConfig())

	docs := []Document{
		inventoryDoc("Asset ID", "Hostname"),
		{Name: "poam.xlsx", Context: override.NewContext("poam").WithHeaders("Weakness Name", "Status")},
		inventoryDoc("Mgmt IP"),
	}

	plans, err := p.PlanDocuments(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	assert.Equal(t, "inventory", plans[0].DocumentType)
	assert.Equal(t, "poam.xlsx", plans[1].Document)
	assert.Equal(t, "ip_address", plans[2].Columns[0].TargetField)
}

func TestPlanDocuments_FileScopedOverride(t *testing.T) {
	vendor := Document{
		Name:    "vendor.csv",
		Context: override.NewContext("inventory").WithFileName("vendor.csv").WithHeaders("Owner"),
	}
	internal := Document{
		Name:    "internal.csv",
		Context: override.NewContext("inventory").WithFileName("internal.csv").WithHeaders("Owner"),
	}

	tests := []struct {
		name string
		docs []Document
	}{
		{name: "vendor first", docs: []Document{vendor, internal, vendor, internal}},
		{name: "internal first", docs: []Document{internal, vendor, internal, vendor}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlanner(t, Config{Concurrency: 2, MaxCandidates: 3})

			rule, err := override.NewMappingOverride("vendor owner", override.MatchExact,
				override.Pattern{Text: "Owner"}, "system_owner", "tester",
				override.WithID("vendor-owner"),
				override.WithScope(override.FilePatternScope{Substr: "vendor"}))
			require.NoError(t, err)
			require.NoError(t, p.engine.AddOverride(rule))

			plans, err := p.PlanDocuments(context.Background(), tt.docs)
			require.NoError(t, err)
			require.Len(t, plans, len(tt.docs))

			for i, dp := range plans {
				col, ok := dp.Column("Owner")
				require.True(t, ok, dp.Document)

				if tt.docs[i].Name == "vendor.csv" {
					assert.Equal(t, override.OriginOverride, col.Origin, "plan %d", i)
					assert.Equal(t, "system_owner", col.TargetField, "plan %d", i)
				} else {
					assert.Equal(t, override.OriginUnmapped, col.Origin, "plan %d", i)
					assert.Empty(t, col.TargetField, "plan %d", i)
				}
			}
		})
	}
}

func TestPlanDocuments_Cancelled(t *testing.T) {
	p := newTestPlanner(t, Config{Concurrency: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PlanDocuments(ctx, []Document{inventoryDoc("Asset ID")})
	assert.ErrorIs(t, err, context.Canceled)
}
