package mapping

import (
	"time"
)

// CurrentVersion is the rule file schema version this package understands.
const CurrentVersion = "1"

// RuleFile represents the root of a YAML rule file.
type RuleFile struct {
	// Version of the rule file schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Defaults apply to every override that leaves the field unset.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Fields is the catalog of canonical target fields.
	Fields []FieldSpec `yaml:"fields,omitempty"`

	// Overrides are the user-defined mapping rules.
	Overrides []OverrideSpec `yaml:"overrides,omitempty"`
}

// Defaults holds file-wide fallbacks for override fields.
type Defaults struct {
	CreatedBy     string `yaml:"created_by,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty"`
	Priority      int    `yaml:"priority,omitempty"`
}

// FieldSpec is one catalog entry.
type FieldSpec struct {
	// Target is the canonical field name.
	Target string `yaml:"target"`

	// Columns lists header spellings that carry the field.
	Columns StringOrArray `yaml:"columns,omitempty"`

	// SourceType is one of inventory, poam, ssp_section or custom.
	SourceType string `yaml:"source_type,omitempty"`

	// Required marks fields every document of the source type must carry.
	Required bool `yaml:"required,omitempty"`
}

// OverrideSpec is the file form of an override rule.
type OverrideSpec struct {
	// ID is optional; a random id is assigned when empty.
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Pattern       string   `yaml:"pattern"`
	Type          string   `yaml:"type,omitempty"`
	CaseSensitive *bool    `yaml:"case_sensitive,omitempty"`
	Threshold     *float64 `yaml:"threshold,omitempty"`

	Scope      ScopeSpec       `yaml:"scope,omitempty"`
	Conditions []ConditionSpec `yaml:"conditions,omitempty"`
	Position   *PositionSpec   `yaml:"position,omitempty"`

	Target   string `yaml:"target"`
	Priority *int   `yaml:"priority,omitempty"`
	Active   *bool  `yaml:"active,omitempty"`

	CreatedBy string        `yaml:"created_by,omitempty"`
	CreatedAt *time.Time    `yaml:"created_at,omitempty"`
	Tags      StringOrArray `yaml:"tags,omitempty"`
}

// Label identifies the override in diagnostics.
func (o *OverrideSpec) Label() string {
	if o.ID != "" {
		return o.ID
	}

	return o.Name
}

// ScopeSpec is the file form of a scope.
type ScopeSpec struct {
	Kind string
	ID   string
}

// ConditionSpec is the file form of a condition.
type ConditionSpec struct {
	Type string `yaml:"type"`
	// Field defaults to Type when empty.
	Field    string         `yaml:"field,omitempty"`
	Operator string         `yaml:"operator"`
	Value    ConditionValue `yaml:"value"`
	Required bool           `yaml:"required,omitempty"`
}

// ConditionValue is a scalar condition operand that remembers whether YAML
// typed it as a number.
type ConditionValue struct {
	Text     string
	Number   float64
	IsNumber bool
	Set      bool
}

// PositionSpec is the file form of position constraints.
type PositionSpec struct {
	Min     *int  `yaml:"min,omitempty"`
	Max     *int  `yaml:"max,omitempty"`
	Indices []int `yaml:"indices,omitempty"`
}

// StringOrArray represents a value that can be either a single string or an array of strings.
// This allows YAML like `columns: Hostname` or `columns: [Hostname, DNS Name]`.
type StringOrArray []string
